package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"regexp"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/codebuildervaibhav/voice-meeting-log/internal/dates"
	"github.com/codebuildervaibhav/voice-meeting-log/internal/types"
)

// sheetTab is the tab all record rows live on.
const sheetTab = "Records"

// Column order is part of the contract with downstream spreadsheet consumers;
// the trailing Record ID column is the idempotency key and must stay last.
var sheetHeader = []interface{}{
	"Date", "Time", "Speaker", "Group", "PersonMet", "Location",
	"DayOfWeek", "Transcription", "Duration", "Record ID",
}

// SheetsClient pushes meeting records to a Google Sheets spreadsheet.
type SheetsClient struct {
	service       *sheets.Service
	spreadsheetID string
}

// NewSheetsClient builds the Sheets service from an OAuth credentials file and
// cached token. If spreadsheetID is empty a new spreadsheet is created and its
// id logged so it can be pinned in the config.
func NewSheetsClient(credentialsFile, tokenFile, spreadsheetID string) (*SheetsClient, error) {
	ctx := context.Background()

	b, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read credentials file: %w", err)
	}

	config, err := google.ConfigFromJSON(b, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse credentials: %w", err)
	}

	client := getClient(config, tokenFile)

	srv, err := sheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create Sheets service: %w", err)
	}

	sc := &SheetsClient{service: srv, spreadsheetID: spreadsheetID}
	if sc.spreadsheetID == "" {
		if err := sc.createSpreadsheet(ctx); err != nil {
			return nil, err
		}
	}
	return sc, nil
}

// getClient retrieves a token, saves the token, then returns the generated client
func getClient(config *oauth2.Config, tokenFile string) *http.Client {
	tok, err := tokenFromFile(tokenFile)
	if err != nil {
		tok = getTokenFromWeb(config)
		saveToken(tokenFile, tok)
	}
	return config.Client(context.Background(), tok)
}

// getTokenFromWeb requests a token from the web
func getTokenFromWeb(config *oauth2.Config) *oauth2.Token {
	authURL := config.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Printf("Go to the following link in your browser:\n%v\n", authURL)
	fmt.Print("Enter authorization code: ")

	var authCode string
	if _, err := fmt.Scan(&authCode); err != nil {
		panic(fmt.Sprintf("Unable to read authorization code: %v", err))
	}

	tok, err := config.Exchange(context.TODO(), authCode)
	if err != nil {
		panic(fmt.Sprintf("Unable to retrieve token from web: %v", err))
	}
	return tok
}

// tokenFromFile retrieves a token from a local file
func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(tok)
	return tok, err
}

// saveToken saves a token to a file path
func saveToken(path string, token *oauth2.Token) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		panic(fmt.Sprintf("Unable to cache oauth token: %v", err))
	}
	defer f.Close()
	json.NewEncoder(f).Encode(token)
}

// createSpreadsheet creates the spreadsheet with the header row.
func (sc *SheetsClient) createSpreadsheet(ctx context.Context) error {
	ss := &sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{Title: "Meeting Records"},
		Sheets: []*sheets.Sheet{
			{Properties: &sheets.SheetProperties{Title: sheetTab}},
		},
	}

	created, err := sc.service.Spreadsheets.Create(ss).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("unable to create spreadsheet: %w", err)
	}
	sc.spreadsheetID = created.SpreadsheetId

	header := &sheets.ValueRange{Values: [][]interface{}{sheetHeader}}
	_, err = sc.service.Spreadsheets.Values.
		Append(sc.spreadsheetID, sheetTab+"!A1", header).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("unable to write header row: %w", err)
	}

	log.Printf("Created spreadsheet %s - set sheets.spreadsheet_id in config to reuse it", sc.spreadsheetID)
	return nil
}

// AppendRecord pushes one record as a row and returns the row reference. The
// push is an upsert keyed by record id: if the id is already present in the
// trailing column the existing row reference is returned and nothing is
// appended, so the per-record and batch sync paths cannot double-create a row.
func (sc *SheetsClient) AppendRecord(ctx context.Context, rec *types.MeetingRecord) (string, error) {
	if ref, err := sc.findExistingRow(ctx, rec.ID); err != nil {
		return "", err
	} else if ref != "" {
		return ref, nil
	}

	row := []interface{}{
		rec.RecordingDate,
		dates.DisplayTime(rec.RecordingDateTime),
		rec.SpeakerName,
		rec.GroupNumber,
		rec.PersonMet,
		rec.Location,
		rec.DayOfWeek,
		rec.FullTranscription,
		rec.RecordingDuration,
		rec.ID,
	}

	vr := &sheets.ValueRange{Values: [][]interface{}{row}}
	resp, err := sc.service.Spreadsheets.Values.
		Append(sc.spreadsheetID, sheetTab+"!A:J", vr).
		ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to append record row: %w", err)
	}

	ref := rowRefFromRange(resp.Updates.UpdatedRange)
	if ref == "" {
		ref = rec.ID
	}
	return ref, nil
}

// findExistingRow scans the record-id column for the given id.
func (sc *SheetsClient) findExistingRow(ctx context.Context, recordID string) (string, error) {
	resp, err := sc.service.Spreadsheets.Values.
		Get(sc.spreadsheetID, sheetTab+"!J:J").
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to read record-id column: %w", err)
	}

	for i, row := range resp.Values {
		if len(row) > 0 && fmt.Sprint(row[0]) == recordID {
			return fmt.Sprintf("row_%d", i+1), nil
		}
	}
	return "", nil
}

var rangeRowRe = regexp.MustCompile(`![A-Z]+(\d+)(:|$)`)

// rowRefFromRange extracts the row number from an A1 range like "Records!A5:J5".
func rowRefFromRange(a1 string) string {
	m := rangeRowRe.FindStringSubmatch(a1)
	if len(m) < 2 {
		return ""
	}
	return "row_" + m[1]
}
