// Package loader reads transaction datasets from JSON files and can generate
// mock datasets for demos and local testing.
package loader

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/google/uuid"

	"golang-refmatch-service/internal/models"
	"golang-refmatch-service/pkg/errors"
	"golang-refmatch-service/pkg/logger"
)

// LoadFile reads a JSON array of transactions from path. Records that fail
// validation are dropped; if any were dropped the returned error is an
// *errors.ErrorSummary describing them, alongside the valid transactions.
func LoadFile(path string) ([]*models.Transaction, error) {
	log := logger.GetGlobalLogger().WithComponent("loader")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.FileError(errors.CodeFileNotFound, path, err)
		}
		if os.IsPermission(err) {
			return nil, errors.FileError(errors.CodeFilePermission, path, err)
		}
		return nil, errors.FileError(errors.CodeFileNotFound, path, err)
	}

	var transactions []*models.Transaction
	if err := json.Unmarshal(data, &transactions); err != nil {
		return nil, errors.ParseError(errors.CodeInvalidFormat, path, err)
	}

	valid := make([]*models.Transaction, 0, len(transactions))
	var recordErrors []*errors.RefmatchError
	for i, tx := range transactions {
		if tx == nil {
			recordErrors = append(recordErrors, errors.ParseError(errors.CodeInvalidRecord,
				path, fmt.Errorf("record %d is null", i)))
			continue
		}
		if err := tx.Validate(); err != nil {
			recordErrors = append(recordErrors, errors.ValidationError(errors.CodeInvalidRecord,
				fmt.Sprintf("record[%d]", i), tx.ID, err))
			continue
		}
		valid = append(valid, tx)
	}

	log.WithFields(logger.Fields{
		"file":    path,
		"total":   len(transactions),
		"valid":   len(valid),
		"skipped": len(recordErrors),
	}).Info("Loaded transaction file")

	if len(recordErrors) > 0 {
		return valid, errors.NewErrorSummary(recordErrors)
	}
	return valid, nil
}

// LoadOrMock loads transactions from path, or generates count mock
// transactions when path is empty.
func LoadOrMock(path string, count int) ([]*models.Transaction, error) {
	if path == "" {
		return MockTransactions(count), nil
	}
	return LoadFile(path)
}

var mockCounterparties = []string{
	"ACME Corporation",
	"Globex Industries",
	"Initech LLC",
	"Umbrella Supplies",
	"Stark Manufacturing",
	"Wayne Logistics",
	"Hooli Services",
	"Vandelay Imports",
}

var mockCurrencies = []string{"USD", "USD", "USD", "EUR", "GBP"}

// MockTransactions generates count synthetic transactions with realistic
// remittance descriptions containing reference tokens.
func MockTransactions(count int) []*models.Transaction {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	base := time.Now().AddDate(0, -3, 0).Truncate(24 * time.Hour)

	transactions := make([]*models.Transaction, 0, count)
	for i := 0; i < count; i++ {
		counterparty := mockCounterparties[rng.Intn(len(mockCounterparties))]
		currency := mockCurrencies[rng.Intn(len(mockCurrencies))]
		cents := int64(1000 + rng.Intn(5000000))
		amount := models.NewMoney(float64(cents)/100, currency)
		date := base.Add(time.Duration(rng.Intn(90*24)) * time.Hour)

		var description string
		switch rng.Intn(5) {
		case 0:
			description = fmt.Sprintf("Payment for INVOICE 2024-%05d from %s", 10000+rng.Intn(90000), counterparty)
		case 1:
			description = fmt.Sprintf("PO-%04d settlement %s", 1000+rng.Intn(9000), counterparty)
		case 2:
			description = fmt.Sprintf("Wire transfer REF %s%04d", counterparty[:3], rng.Intn(10000))
		case 3:
			description = fmt.Sprintf("CONTRACT C-%03d monthly payment", 100+rng.Intn(900))
		default:
			description = fmt.Sprintf("Bank transfer %010d BATCH %04d", rng.Int63n(1e10), 1000+rng.Intn(9000))
		}

		tx := models.NewTransaction(uuid.New().String(), description, amount, date, counterparty)
		transactions = append(transactions, tx)
	}
	return transactions
}
