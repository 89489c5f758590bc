// Package ecpay builds checkout forms for the ECPay all-in-one (AIO) payment
// gateway and verifies its server-to-server callbacks.
package ecpay

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"html"
	"net/url"
	"sort"
	"strings"
	"time"
)

// StageCheckoutURL is the AIO endpoint for test-mode merchants.
const StageCheckoutURL = "https://payment-stage.ecpay.com.tw/Cashier/AioCheckOut/V5"

// Config carries the merchant credentials and the URLs ECPay calls back to.
type Config struct {
	MerchantID    string
	HashKey       string
	HashIV        string
	ReturnURL     string // server-to-server payment result endpoint
	ClientBackURL string // where the payer's browser is sent afterwards
	CheckoutURL   string // defaults to StageCheckoutURL
}

// Client assembles signed AIO requests.
type Client struct {
	cfg Config
	now func() time.Time
}

func New(cfg Config) *Client {
	if cfg.CheckoutURL == "" {
		cfg.CheckoutURL = StageCheckoutURL
	}
	return &Client{cfg: cfg, now: time.Now}
}

// CheckoutParams returns the signed form parameters for one trade. amount is
// the total in TWD; items is the gateway's #-separated item name string.
func (c *Client) CheckoutParams(amount, items string) map[string]string {
	if amount == "" {
		amount = "100"
	}
	if items == "" {
		items = "測試商品"
	}
	now := c.now()
	params := map[string]string{
		"MerchantID":        c.cfg.MerchantID,
		"MerchantTradeNo":   fmt.Sprintf("sb%d", now.UnixMilli()),
		"MerchantTradeDate": now.Format("2006/01/02 15:04:05"),
		"PaymentType":       "aio",
		"TotalAmount":       amount,
		"TradeDesc":         "課程購買",
		"ItemName":          items,
		"ReturnURL":         c.cfg.ReturnURL,
		"ClientBackURL":     c.cfg.ClientBackURL,
		"ChoosePayment":     "ALL",
		"EncryptType":       "1",
	}
	params["CheckMacValue"] = c.CheckMacValue(params)
	return params
}

// CheckoutForm renders an auto-submitting HTML form that posts the signed
// parameters to the gateway.
func (c *Client) CheckoutForm(amount, items string) string {
	params := c.CheckoutParams(amount, items)
	keys := sortedKeys(params)

	var b strings.Builder
	b.WriteString("<!DOCTYPE html><html><head><meta charset=\"utf-8\"></head><body>")
	b.WriteString(`<form id="ecpay-form" method="post" action="` + html.EscapeString(c.cfg.CheckoutURL) + `">`)
	for _, k := range keys {
		fmt.Fprintf(&b, `<input type="hidden" name="%s" value="%s">`,
			html.EscapeString(k), html.EscapeString(params[k]))
	}
	b.WriteString(`</form><script>document.getElementById("ecpay-form").submit();</script></body></html>`)
	return b.String()
}

// CheckMacValue signs the parameters with the merchant hash key/IV using the
// gateway's SHA256 scheme: sort keys, wrap with HashKey/HashIV, URL-encode,
// lowercase, apply the gateway's .NET-style escape substitutions, hash, and
// uppercase the hex digest. Any CheckMacValue entry in params is ignored.
func (c *Client) CheckMacValue(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		if k == "CheckMacValue" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("HashKey=" + c.cfg.HashKey)
	for _, k := range keys {
		b.WriteString("&" + k + "=" + params[k])
	}
	b.WriteString("&HashIV=" + c.cfg.HashIV)

	encoded := strings.ToLower(url.QueryEscape(b.String()))
	encoded = dotnetReplacer.Replace(encoded)

	sum := sha256.Sum256([]byte(encoded))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

// The gateway computes its mac over a .NET UrlEncode result, which leaves
// these characters unescaped where Go's QueryEscape does not.
var dotnetReplacer = strings.NewReplacer(
	"%2d", "-",
	"%5f", "_",
	"%2e", ".",
	"%21", "!",
	"%2a", "*",
	"%28", "(",
	"%29", ")",
)

// VerifyCallback recomputes the mac over a callback's form values and
// compares it to the CheckMacValue the gateway sent.
func (c *Client) VerifyCallback(form url.Values) bool {
	sent := form.Get("CheckMacValue")
	if sent == "" {
		return false
	}
	params := make(map[string]string, len(form))
	for k := range form {
		params[k] = form.Get(k)
	}
	return c.CheckMacValue(params) == sent
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
