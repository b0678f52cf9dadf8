package complaint

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"aptcare/backend/internal/apperr"
	"aptcare/backend/internal/config"
	"aptcare/backend/internal/models"
)

// PaymentRequest carries what the owner submits when paying a resolved
// complaint. Raw card numbers are never accepted; the client sends only the
// last four digits.
type PaymentRequest struct {
	Amount         float64 `json:"amount"`
	Currency       string  `json:"currency"`
	PaymentMethod  string  `json:"paymentMethod"`
	CardholderName string  `json:"cardholderName"`
	CardLastFour   string  `json:"cardLastFour"`
}

// newTransactionID builds a display-grade identifier: unique enough within
// the system's operating window, no global guarantee intended.
func newTransactionID() string {
	n, err := rand.Int(rand.Reader, big.NewInt(1000))
	suffix := int64(0)
	if err == nil {
		suffix = n.Int64()
	}
	return fmt.Sprintf("TXN%d%03d", time.Now().UnixMilli(), suffix)
}

// maskCard keeps at most the last four digits of whatever the client sent.
func maskCard(lastFour string) string {
	if lastFour == "" {
		return "****"
	}
	if len(lastFour) > 4 {
		lastFour = lastFour[len(lastFour)-4:]
	}
	return lastFour
}

// applyPayment runs the payment sub-algorithm on c in place. The caller has
// already verified that the paying principal owns the complaint.
func applyPayment(c *models.Complaint, owner *models.User, req PaymentRequest, now time.Time) error {
	if c.Status != models.StatusResolved {
		return apperr.Newf(apperr.InvalidTransition, "payment can only be made for resolved complaints (status is %s)", c.Status)
	}

	amount := req.Amount
	if amount <= 0 {
		amount = c.PaymentAmount
	}
	if amount <= 0 {
		return apperr.New(apperr.InvalidTransition, "complaint has no payable amount")
	}

	currency := req.Currency
	if currency == "" {
		currency = config.DefaultCurrency
	}
	method := req.PaymentMethod
	if method == "" {
		method = config.DefaultPaymentMethod
	}
	name := req.CardholderName
	if name == "" && owner != nil {
		name = owner.Name
	}
	door := c.DoorNumber
	if door == "" && owner != nil {
		door = owner.DoorNumber
	}

	c.PaymentDetails = models.PaymentDetails{
		TransactionID:  newTransactionID(),
		Amount:         amount,
		Currency:       currency,
		PaymentMethod:  method,
		CardholderName: name,
		CardLastFour:   maskCard(req.CardLastFour),
		DoorNumber:     door,
		Status:         models.PaymentCompleted,
	}
	c.PaymentStatus = models.PaymentCompleted
	c.PaymentDate = &now
	c.Status = models.StatusClosed
	return nil
}
