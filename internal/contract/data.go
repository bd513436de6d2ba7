package contract

import (
	"fmt"
	"strings"
	"time"

	"housemanagement/config"
	"housemanagement/internal/models"

	"github.com/shopspring/decimal"
)

const DefaultDesigner = "ทีมออกแบบ Project House"

type Company struct {
	Name    string
	Address string
	Phone   string
	Email   string
}

func CompanyFromConfig(cfg config.Config) Company {
	return Company{
		Name:    cfg.CompanyName,
		Address: cfg.CompanyAddress,
		Phone:   cfg.CompanyPhone,
		Email:   cfg.CompanyEmail,
	}
}

// Data is everything a contract renders.
type Data struct {
	QuoteID           uint
	Status            string
	DesignTitle       string
	DesignDescription string
	DesignCode        string
	Designer          string
	IsCatalogDesign   bool
	ClientName        string
	ClientEmail       string
	ClientAddress     string
	ClientPhone       string
	IssuedDate        time.Time
	TotalPrice        decimal.Decimal
	HasPrice          bool
	Installments      []Installment
	Company           Company
}

// BuildData expects Design.Owner, CatalogDesign and RequestedBy.Profile loaded.
func BuildData(quote *models.Quote, company Company, issued time.Time) Data {
	data := Data{
		QuoteID:           quote.ID,
		Status:            string(quote.Status),
		DesignTitle:       quote.ReferenceName(),
		DesignDescription: quote.ReferenceDescription(),
		DesignCode:        quote.ReferenceCode(),
		Designer:          DefaultDesigner,
		IsCatalogDesign:   quote.IsCatalogSource(),
		IssuedDate:        issued,
		HasPrice:          HasPrice(quote.Price),
		Installments:      BuildSchedule(quote.Price),
		Company:           company,
	}

	if quote.Price != nil {
		data.TotalPrice = *quote.Price
	}

	if quote.Design != nil && quote.Design.Owner != nil {
		data.Designer = quote.Design.Owner.DisplayName()
	}

	if client := quote.RequestedBy; client != nil {
		data.ClientName = client.DisplayName()
		data.ClientEmail = client.Email
		if client.Profile != nil {
			data.ClientAddress = client.Profile.Address
			data.ClientPhone = client.Profile.Phone
		}
	}

	return data
}

func Filename(quoteID uint) string {
	return fmt.Sprintf("contract_quote_%d.pdf", quoteID)
}

// FormatMoney renders 1234567.5 as "1,234,567.50".
func FormatMoney(amount decimal.Decimal) string {
	fixed := amount.StringFixed(2)
	negative := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	whole, cents, _ := strings.Cut(fixed, ".")
	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	result := b.String() + "." + cents
	if negative {
		return "-" + result
	}
	return result
}

func formatAmount(amount *decimal.Decimal) string {
	if amount == nil {
		return "-"
	}
	return FormatMoney(*amount)
}

func formatDate(t time.Time) string {
	return t.Format("02/01/2006")
}
