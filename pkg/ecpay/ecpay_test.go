package ecpay

import (
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"
)

func stageClient() *Client {
	c := New(Config{
		MerchantID:    "2000132",
		HashKey:       "5294y06JbISpM5x9",
		HashIV:        "v77hoKGq4kWxNNIS",
		ReturnURL:     "https://api.example.com/api/ecpay/return",
		ClientBackURL: "https://api.example.com/api/ecpay/clientReturn",
	})
	c.now = func() time.Time {
		return time.Date(2024, 3, 15, 10, 30, 0, 0, time.FixedZone("CST", 8*3600))
	}
	return c
}

func TestCheckoutParams(t *testing.T) {
	c := stageClient()
	params := c.CheckoutParams("1500", "Go basics")

	if params["MerchantID"] != "2000132" {
		t.Errorf("MerchantID = %q", params["MerchantID"])
	}
	if params["TotalAmount"] != "1500" || params["ItemName"] != "Go basics" {
		t.Errorf("amount/items = %q/%q", params["TotalAmount"], params["ItemName"])
	}
	if !strings.HasPrefix(params["MerchantTradeNo"], "sb") {
		t.Errorf("MerchantTradeNo = %q, want sb prefix", params["MerchantTradeNo"])
	}
	if params["MerchantTradeDate"] != "2024/03/15 10:30:00" {
		t.Errorf("MerchantTradeDate = %q", params["MerchantTradeDate"])
	}
	if params["PaymentType"] != "aio" || params["ChoosePayment"] != "ALL" || params["EncryptType"] != "1" {
		t.Errorf("gateway constants wrong: %+v", params)
	}
	if params["ReturnURL"] != "https://api.example.com/api/ecpay/return" {
		t.Errorf("ReturnURL = %q", params["ReturnURL"])
	}
	if params["CheckMacValue"] == "" {
		t.Error("CheckMacValue missing")
	}
}

func TestCheckoutParamsDefaults(t *testing.T) {
	c := stageClient()
	params := c.CheckoutParams("", "")
	if params["TotalAmount"] != "100" {
		t.Errorf("default amount = %q, want 100", params["TotalAmount"])
	}
	if params["ItemName"] == "" {
		t.Error("default item name missing")
	}
}

func TestCheckMacValueShape(t *testing.T) {
	c := stageClient()
	params := c.CheckoutParams("100", "item")
	mac := params["CheckMacValue"]

	if !regexp.MustCompile(`^[0-9A-F]{64}$`).MatchString(mac) {
		t.Fatalf("mac = %q, want 64 uppercase hex chars", mac)
	}
	// deterministic over the same input
	if again := c.CheckMacValue(params); again != mac {
		t.Errorf("mac not deterministic: %q vs %q", mac, again)
	}
	// the mac entry itself must not feed the signature
	delete(params, "CheckMacValue")
	if c.CheckMacValue(params) != mac {
		t.Error("mac changes when CheckMacValue entry is removed from input")
	}
	// any single param change must change the mac
	params["TotalAmount"] = "101"
	if c.CheckMacValue(params) == mac {
		t.Error("mac unchanged after amount change")
	}
}

func TestVerifyCallback(t *testing.T) {
	c := stageClient()

	form := url.Values{}
	form.Set("MerchantID", "2000132")
	form.Set("MerchantTradeNo", "sb1710469800000")
	form.Set("RtnCode", "1")
	form.Set("RtnMsg", "交易成功")
	form.Set("TradeAmt", "1500")

	params := map[string]string{}
	for k := range form {
		params[k] = form.Get(k)
	}
	form.Set("CheckMacValue", c.CheckMacValue(params))

	if !c.VerifyCallback(form) {
		t.Fatal("valid callback rejected")
	}

	form.Set("TradeAmt", "9999")
	if c.VerifyCallback(form) {
		t.Error("tampered callback accepted")
	}

	form.Del("CheckMacValue")
	if c.VerifyCallback(form) {
		t.Error("callback without mac accepted")
	}
}

func TestCheckoutFormAutoSubmits(t *testing.T) {
	c := stageClient()
	formHTML := c.CheckoutForm("1500", "Go basics")

	if !strings.Contains(formHTML, `action="`+StageCheckoutURL+`"`) {
		t.Error("form does not post to the stage checkout URL")
	}
	if !strings.Contains(formHTML, `name="CheckMacValue"`) {
		t.Error("form missing CheckMacValue field")
	}
	if !strings.Contains(formHTML, "submit()") {
		t.Error("form does not auto-submit")
	}
}
