package seed

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// LoadStock ingests a CSV of name,quantity,price,expiry_date rows into the
// stock table when it is empty. Malformed rows are skipped.
func LoadStock(db *sqlx.DB, csvPath string, logger *zap.Logger) (int, error) {
	var existing int
	if err := db.Get(&existing, `SELECT COUNT(*) FROM stock`); err != nil {
		return 0, fmt.Errorf("unable to count stock: %w", err)
	}
	if existing > 0 {
		logger.Info("stock already present, skipping seed", zap.Int("rows", existing))
		return 0, nil
	}

	file, err := os.Open(csvPath)
	if err != nil {
		return 0, fmt.Errorf("unable to open stock seed %s: %w", csvPath, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	// Skip header
	if _, err := reader.Read(); err != nil {
		return 0, fmt.Errorf("unable to read stock seed header: %w", err)
	}

	tx, err := db.Beginx()
	if err != nil {
		return 0, fmt.Errorf("unable to start stock seed transaction: %w", err)
	}
	stmt, err := tx.Preparex(`INSERT INTO stock (name, quantity, price, expiry_date) VALUES (?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("unable to prepare stock insert: %w", err)
	}
	defer stmt.Close()

	rows := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			logger.Warn("unable to read stock row", zap.Error(err))
			continue
		}
		if len(record) < 4 {
			continue
		}
		name := strings.TrimSpace(record[0])
		qty, qtyErr := strconv.ParseInt(strings.TrimSpace(record[1]), 10, 64)
		price, priceErr := decimal.NewFromString(strings.TrimSpace(record[2]))
		expiry := strings.TrimSpace(record[3])
		if name == "" || expiry == "" || qtyErr != nil || priceErr != nil || qty < 0 || price.IsNegative() {
			logger.Warn("skipping malformed stock row", zap.Strings("record", record))
			continue
		}

		if _, err := stmt.Exec(name, qty, price, expiry); err != nil {
			logger.Warn("unable to insert stock row", zap.String("name", name), zap.Error(err))
		} else {
			rows++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("unable to commit stock seed: %w", err)
	}
	logger.Info("seeded stock", zap.Int("rows", rows))
	return rows, nil
}
