//-------------------------------------------------------------------------
//
// Retail Insights
//
// Copyright (c) 2025 - 2026, the retail-insights authors
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package datagen

import (
	"fmt"
	"strings"
	"time"

	"github.com/retailops/retail-insights/internal/pipeline"
)

// The seeder deliberately produces a dirty dataset: anonymous invoice
// lines, returns with negative quantities, zero-price adjustment rows,
// exact duplicate lines, and conflicting country and description
// spellings. The cleaning stage has to earn its keep.
const (
	anonymousRate  = 0.02 // invoices with no customer id
	returnRate     = 0.03 // negative-quantity return lines
	zeroPriceRate  = 0.01 // zero-value adjustment rows
	duplicateRate  = 0.02 // exact duplicate of the previous line
	misspelledRate = 0.05 // alternate description casing for a product
)

// Basket sizes skew small: single-line invoices are the most common.
var (
	basketSizes   = []int{1, 2, 3, 4, 5, 6, 7, 8}
	basketWeights = []int{30, 22, 16, 12, 8, 6, 4, 2}
)

type product struct {
	stockCode   string
	description string
}

type customer struct {
	id      string
	country string
	// altCountry is a second spelling occasionally emitted so the
	// cleaning stage has conflicting values to resolve.
	altCountry string
}

// Seeder generates synthetic staging rows.
type Seeder struct {
	faker     *Faker
	products  []product
	customers []customer
	start     time.Time
	end       time.Time
}

// NewSeeder creates a seeder. A zero seed picks a random one.
func NewSeeder(seed uint64) *Seeder {
	var f *Faker
	if seed == 0 {
		f = NewFaker()
	} else {
		f = NewFakerWithSeed(seed)
	}

	s := &Seeder{
		faker: f,
		end:   time.Now().UTC().Truncate(24 * time.Hour),
	}
	s.start = s.end.AddDate(-1, 0, 0)
	s.products = s.makeProducts(250)
	s.customers = s.makeCustomers(800)
	return s
}

func (s *Seeder) makeProducts(n int) []product {
	products := make([]product, n)
	for i := range products {
		products[i] = product{
			stockCode:   fmt.Sprintf("%s%s", s.faker.Digits(5), s.faker.Letters(1)),
			description: strings.ToUpper(s.faker.ProductName()),
		}
	}
	return products
}

func (s *Seeder) makeCustomers(n int) []customer {
	customers := make([]customer, n)
	for i := range customers {
		country := s.faker.Country()
		c := customer{
			id:      s.faker.Digits(5),
			country: country,
		}
		if s.faker.Float64(0, 1) < 0.1 {
			c.altCountry = strings.ToUpper(country)
		}
		customers[i] = c
	}
	return customers
}

// Rows generates approximately n staging rows as invoices of 1-8 lines.
// Generation may overshoot n by a few lines to finish the last invoice.
func (s *Seeder) Rows(n int) []pipeline.StagingRow {
	rows := make([]pipeline.StagingRow, 0, n+8)

	for len(rows) < n {
		rows = append(rows, s.invoice()...)
	}
	return rows
}

// invoice produces the lines of a single synthetic invoice.
func (s *Seeder) invoice() []pipeline.StagingRow {
	anonymous := s.faker.Float64(0, 1) < anonymousRate
	isReturn := s.faker.Float64(0, 1) < returnRate

	var cust customer
	if !anonymous {
		cust = Choose(s.faker, s.customers)
	}

	invoiceNo := s.faker.Digits(6)
	if isReturn {
		invoiceNo = "C" + invoiceNo
	}
	invoiceDate := s.faker.DateRange(s.start, s.end)

	country := cust.country
	if anonymous {
		// Guest checkouts still carry a ship-to country.
		country = s.faker.Country()
	} else if cust.altCountry != "" && s.faker.Bool() {
		country = cust.altCountry
	}

	lineCount := ChooseWeighted(s.faker, basketSizes, basketWeights)
	lines := make([]pipeline.StagingRow, 0, lineCount+1)

	for i := 0; i < lineCount; i++ {
		p := Choose(s.faker, s.products)

		description := p.description
		if s.faker.Float64(0, 1) < misspelledRate {
			description = strings.ToLower(description)
		}

		quantity := s.faker.Int(1, 24)
		if isReturn {
			quantity = -quantity
		}

		price := s.faker.Price(0.5, 30)
		if s.faker.Float64(0, 1) < zeroPriceRate {
			price = 0
		}

		line := pipeline.StagingRow{
			InvoiceNo:   invoiceNo,
			StockCode:   p.stockCode,
			Description: description,
			Quantity:    quantity,
			InvoiceDate: invoiceDate,
			UnitPrice:   price,
			CustomerID:  cust.id,
			Country:     country,
		}
		lines = append(lines, line)

		if s.faker.Float64(0, 1) < duplicateRate {
			lines = append(lines, line)
		}
	}

	return lines
}
