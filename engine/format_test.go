package engine

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "1,234", FormatNumber(1234))
	assert.Equal(t, "1,234.5", FormatNumber(1234.5))
	assert.Equal(t, "0.33", FormatNumber(1.0/3))
	assert.Equal(t, "1,000,000", FormatInt(1000000))
}

func TestColumnLabel(t *testing.T) {
	assert.Equal(t, "Avg Monthly Consumption", ColumnLabel("avg_monthly_consumption"))
	assert.Equal(t, "Item Name", ColumnLabel("item_name"))
	assert.Equal(t, "KPI Id", ColumnLabel("KPI_id"))
}

func TestTableAndLabelsConcurrent(t *testing.T) {
	records := []RawRecord{NewRecord(F("avg_monthly_consumption", 1234.5), F("item_name", "Gloves"))}

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				tbl := BuildTable("t", records, DefaultTableStyle())
				assert.Equal(t, "Avg Monthly Consumption", tbl.Columns[0].Label)
				assert.Equal(t, "1,234.5", tbl.Rows[0][0])
			}
		}()
	}
	wg.Wait()
}

func TestMonthTickLabel(t *testing.T) {
	assert.Equal(t, "Jan 24", MonthTickLabel("2024-01"))
	assert.Equal(t, "Dec 23", MonthTickLabel("2023-12-01"))
	assert.Equal(t, "Q1", MonthTickLabel("Q1"))
}

func TestRoundTo2(t *testing.T) {
	assert.Equal(t, 3.14, RoundTo2(3.14159))
}
