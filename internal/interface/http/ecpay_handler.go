package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/skillboost/skillboost-api/pkg/ecpay"
)

// ECPayHandler relays payment initiation and gateway callbacks. It is a
// stateless bridge: a verified callback is logged but does not mutate orders.
type ECPayHandler struct {
	Client        *ecpay.Client
	ClientBackURL string
	Logger        *logrus.Logger
}

func NewECPayHandler(client *ecpay.Client, clientBackURL string, logger *logrus.Logger) *ECPayHandler {
	return &ECPayHandler{Client: client, ClientBackURL: clientBackURL, Logger: logger}
}

// Payment returns an auto-submitting HTML form that sends the browser to the
// gateway's checkout page. Amount and item names come from the client, as in
// the reference flow; no reconciliation against the cart is performed.
func (h *ECPayHandler) Payment(c *gin.Context) {
	html := h.Client.CheckoutForm(c.Query("amount"), c.Query("items"))
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

// Return handles the gateway's server-to-server payment result. The gateway
// requires the literal body "1|OK" to consider the callback acknowledged.
func (h *ECPayHandler) Return(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		h.Logger.WithError(err).Warn("ecpay callback: bad form")
		c.String(http.StatusOK, "1|OK")
		return
	}
	form := c.Request.PostForm
	entry := h.Logger.WithFields(logrus.Fields{
		"trade_no": form.Get("MerchantTradeNo"),
		"rtn_code": form.Get("RtnCode"),
		"amount":   form.Get("TradeAmt"),
	})
	if h.Client.VerifyCallback(form) {
		entry.Info("ecpay payment result")
	} else {
		entry.Warn("ecpay payment result with bad CheckMacValue")
	}
	c.String(http.StatusOK, "1|OK")
}

// ClientReturn sends the payer's browser back to the storefront.
func (h *ECPayHandler) ClientReturn(c *gin.Context) {
	c.Redirect(http.StatusFound, h.ClientBackURL)
}
