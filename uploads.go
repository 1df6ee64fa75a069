package main

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/simpleym/yard_backend/utils"
	"github.com/xuri/excelize/v2"
)

const maxExcelUploadBytes int64 = 10 * 1024 * 1024

// uploadExcelHandler ingests a spreadsheet into a collection: the first
// row of the first sheet is the header, every following row becomes one
// record, stamped and ID'd like any other insert.
func (a *apiServer) uploadExcelHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			respondError(c, utils.NewValidationError("No file provided"))
			return
		}
		collection := c.PostForm("collection")
		if collection == "" {
			respondError(c, utils.NewValidationError("Collection name is required"))
			return
		}
		if fileHeader.Size > maxExcelUploadBytes {
			respondError(c, utils.NewValidationError("File size exceeds 10MB limit"))
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			respondError(c, fmt.Errorf("Error uploading file: %s", err))
			return
		}
		defer file.Close()

		records, err := parseExcelRecords(file)
		if err != nil {
			respondError(c, fmt.Errorf("Error uploading file: %s", err))
			return
		}
		if len(records) == 0 {
			respondError(c, utils.NewValidationError("Spreadsheet contains no data rows"))
			return
		}

		count, err := a.records.Insert(c.Request.Context(), collection, records)
		if err != nil {
			respondError(c, fmt.Errorf("Error uploading file: %s", err))
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": fmt.Sprintf("Successfully uploaded %d records to %s.", count, collection),
		})
	}
}

func parseExcelRecords(src io.Reader) ([]map[string]any, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("read spreadsheet: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("spreadsheet has no sheets")
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, nil
	}

	header := rows[0]
	var records []map[string]any
	for _, row := range rows[1:] {
		record := map[string]any{}
		empty := true
		for i, key := range header {
			key = strings.TrimSpace(key)
			if key == "" || i >= len(row) {
				continue
			}
			cell := strings.TrimSpace(row[i])
			if cell == "" {
				continue
			}
			empty = false
			record[key] = parseCellValue(cell)
		}
		if !empty {
			records = append(records, record)
		}
	}
	return records, nil
}

// parseCellValue keeps numeric and boolean columns typed; excelize hands
// every cell back as a string.
func parseCellValue(cell string) any {
	if n, err := strconv.ParseFloat(cell, 64); err == nil {
		return n
	}
	if b, err := strconv.ParseBool(strings.ToLower(cell)); err == nil {
		return b
	}
	return cell
}
