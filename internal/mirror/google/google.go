// Package google mirrors ledger rows into a Google Spreadsheet.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"kharcha/internal/core"
	"kharcha/internal/mirror"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Client appends and deletes expense rows on a single sheet. Rows are
// [date, category, amount, user id, expense id]; the trailing id
// columns let DeleteExpense find the row again.
type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
	sheetID       int64
	sheetIDKnown  bool
}

// Ensure interface conformance
var (
	_ mirror.RowAppender = (*Client)(nil)
	_ mirror.RowDeleter  = (*Client)(nil)
)

// NewFromEnv creates a Sheets client using environment variables.
// Required: GOOGLE_SPREADSHEET_ID. Auth comes from
// GOOGLE_CREDENTIALS_JSON or Application Default Credentials.
// GOOGLE_SHEET_NAME names the target sheet (default "Expenses").
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	sheetName := strings.TrimSpace(os.Getenv("GOOGLE_SHEET_NAME"))
	if sheetName == "" {
		sheetName = "Expenses"
	}

	opts := []goption.ClientOption{goption.WithScopes(gsheet.SpreadsheetsScope)}
	if creds := strings.TrimSpace(os.Getenv("GOOGLE_CREDENTIALS_JSON")); creds != "" {
		opts = append(opts, goption.WithCredentialsJSON([]byte(creds)))
	}

	svc, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

// AppendExpense implements mirror.RowAppender.
func (c *Client) AppendExpense(ctx context.Context, userID string, e core.Expense) (string, error) {
	vr := &gsheet.ValueRange{
		Values: [][]any{{
			e.Date,
			e.Category,
			e.Amount.Float(),
			userID,
			strconv.FormatInt(e.ID, 10),
		}},
	}

	resp, err := c.svc.Spreadsheets.Values.
		Append(c.spreadsheetID, c.rowRange(), vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("append row: %w", err)
	}

	ref := ""
	if resp.Updates != nil {
		ref = resp.Updates.UpdatedRange
	}

	slog.InfoContext(ctx, "Expense mirrored to sheet",
		"user_id", userID,
		"expense_id", e.ID,
		"range", ref)

	return ref, nil
}

// DeleteExpense implements mirror.RowDeleter. The row is located by the
// user id and expense id columns; an absent row is a no-op.
func (c *Client) DeleteExpense(ctx context.Context, userID string, expenseID int64) error {
	resp, err := c.svc.Spreadsheets.Values.
		Get(c.spreadsheetID, c.rowRange()).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("read sheet rows: %w", err)
	}

	wantID := strconv.FormatInt(expenseID, 10)
	rowIndex := -1
	for i, row := range resp.Values {
		if len(row) < 5 {
			continue
		}
		if fmt.Sprint(row[3]) == userID && fmt.Sprint(row[4]) == wantID {
			rowIndex = i
			break
		}
	}
	if rowIndex < 0 {
		slog.WarnContext(ctx, "Mirrored row not found, nothing to delete",
			"user_id", userID, "expense_id", expenseID)
		return nil
	}

	sheetID, err := c.resolveSheetID(ctx)
	if err != nil {
		return err
	}

	req := &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{{
			DeleteDimension: &gsheet.DeleteDimensionRequest{
				Range: &gsheet.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "ROWS",
					StartIndex: int64(rowIndex),
					EndIndex:   int64(rowIndex) + 1,
				},
			},
		}},
	}
	if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("delete row: %w", err)
	}

	slog.InfoContext(ctx, "Mirrored row deleted",
		"user_id", userID, "expense_id", expenseID, "row", rowIndex)

	return nil
}

func (c *Client) rowRange() string {
	return c.sheetName + "!A:E"
}

func (c *Client) resolveSheetID(ctx context.Context) (int64, error) {
	if c.sheetIDKnown {
		return c.sheetID, nil
	}

	meta, err := c.svc.Spreadsheets.Get(c.spreadsheetID).
		Fields("sheets.properties").
		Context(ctx).
		Do()
	if err != nil {
		return 0, fmt.Errorf("read spreadsheet metadata: %w", err)
	}

	for _, sheet := range meta.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == c.sheetName {
			c.sheetID = sheet.Properties.SheetId
			c.sheetIDKnown = true
			return c.sheetID, nil
		}
	}

	return 0, fmt.Errorf("sheet %q not found in spreadsheet", c.sheetName)
}
