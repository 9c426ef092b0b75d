package validation

import (
	"strings"

	"iglesia360/internal/model"
)

// ThirdPartyAccount is the bank destination of a third-party payment
type ThirdPartyAccount struct {
	BankName      string `json:"bankName" validate:"notblank"`
	AccountNumber string `json:"accountNumber" validate:"notblank"`
	DocumentType  string `json:"documentType" validate:"notblank"`
	Document      string `json:"document" validate:"notblank"`
	CCI           string `json:"cci" validate:"notblank"`
}

// thirdPartyInput roots violation paths at "thirdParty."
type thirdPartyInput struct {
	ThirdParty ThirdPartyAccount `json:"thirdParty"`
}

const (
	labelBank     = "Banco"
	labelAccount  = "Cuenta"
	labelDocType  = "Tipo de Documento"
	labelDocument = "Documento"
	labelCCI      = "CCI"
)

// Render writes the account in the labelled multi-line format shown to approvers
func (a ThirdPartyAccount) Render() string {
	return strings.Join([]string{
		labelBank + ": " + a.BankName,
		labelAccount + ": " + a.AccountNumber,
		labelDocType + ": " + a.DocumentType,
		labelDocument + ": " + a.Document,
		labelCCI + ": " + a.CCI,
	}, "\n")
}

// ParseThirdParty reads the labelled format back. ok is false when text
// carries none of the known labels, i.e. it is free text.
func ParseThirdParty(text string) (acc ThirdPartyAccount, ok bool) {
	for _, line := range strings.Split(text, "\n") {
		label, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.TrimSpace(label) {
		case labelBank:
			acc.BankName, ok = value, true
		case labelAccount:
			acc.AccountNumber, ok = value, true
		case labelDocType:
			acc.DocumentType, ok = value, true
		case labelDocument:
			acc.Document, ok = value, true
		case labelCCI:
			acc.CCI, ok = value, true
		}
	}
	return acc, ok
}

// Payment validates the payment destination and returns the detail text to
// store. A structured account wins over free text.
func Payment(pt model.PaymentType, detail string, account *ThirdPartyAccount) (string, error) {
	if !pt.Valid() {
		return "", Violations{"paymentType": "must be one of: uno_mismo terceros"}.Err("Invalid request")
	}

	if account != nil {
		if err := Struct(thirdPartyInput{*account}); err != nil {
			return "", err
		}
		detail = account.Render()
	}

	if pt != model.PaymentTerceros {
		return detail, nil
	}

	if err := PaymentDetail(pt, detail); err != nil {
		return "", err
	}
	if parsed, labelled := ParseThirdParty(detail); labelled {
		if err := Struct(thirdPartyInput{parsed}); err != nil {
			return "", err
		}
	}
	return detail, nil
}

// PaymentDetail is the invariant kept by the workflow engine itself: a
// third-party payment always names its destination.
func PaymentDetail(pt model.PaymentType, detail string) error {
	if pt == model.PaymentTerceros && strings.TrimSpace(detail) == "" {
		return Violations{"paymentDetail": "is required for terceros payments"}.Err(msgMissingFields)
	}
	return nil
}
