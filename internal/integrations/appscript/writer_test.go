package appscript

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"nbd-crr/internal/integrations"
)

type captured struct {
	mu          sync.Mutex
	contentType []string
	forms       []map[string]string
}

func (c *captured) handler(reply string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.contentType = append(c.contentType, r.Header.Get("Content-Type"))
		if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
			_ = r.ParseMultipartForm(1 << 20)
		} else {
			_ = r.ParseForm()
		}
		form := map[string]string{}
		for k, v := range r.PostForm {
			form[k] = v[0]
		}
		if r.MultipartForm != nil {
			for k, v := range r.MultipartForm.Value {
				form[k] = v[0]
			}
		}
		c.forms = append(c.forms, form)
		_, _ = w.Write([]byte(reply))
	}
}

func TestWriter_SingleFileMultipart(t *testing.T) {
	got := &captured{}
	srv := httptest.NewServer(got.handler(`{"status":"success"}`))
	defer srv.Close()

	w := New(srv.URL, time.Second, zap.NewNop())
	outcome, err := w.Insert(context.Background(), integrations.InsertRequest{
		SheetName:      "Quotation Update",
		RowData:        []string{"05/03/2024", "SN-010", "IN-NBD-004"},
		IdempotencyKey: "k1",
		Files:          []integrations.Attachment{{Name: "q.pdf", MimeType: "application/pdf", DataURI: "data:application/pdf;base64,AA=="}},
	})
	require.NoError(t, err)
	assert.Equal(t, integrations.OutcomeConfirmed, outcome)

	require.Len(t, got.forms, 1)
	form := got.forms[0]
	assert.Equal(t, "Quotation Update", form["sheetName"])
	assert.Equal(t, "insert", form["action"])
	assert.Equal(t, "k1", form["idempotencyKey"])
	assert.Equal(t, "true", form["hasFile"])
	assert.Equal(t, "q.pdf", form["fileName"])
	assert.Equal(t, "application/pdf", form["fileType"])

	var row []string
	require.NoError(t, json.Unmarshal([]byte(form["rowData"]), &row))
	assert.Equal(t, []string{"05/03/2024", "SN-010", "IN-NBD-004"}, row)
}

func TestWriter_MultiFileFields(t *testing.T) {
	got := &captured{}
	srv := httptest.NewServer(got.handler(`ok`))
	defer srv.Close()

	w := New(srv.URL, time.Second, zap.NewNop())
	outcome, err := w.Insert(context.Background(), integrations.InsertRequest{
		SheetName: "Order Status",
		RowData:   []string{"a"},
		MultiFile: true,
		Files: []integrations.Attachment{
			{Name: "v.mp4", MimeType: "video/mp4", DataURI: "data:video/mp4;base64,AA==", ColumnIndex: 7},
			{Name: "a.pdf", MimeType: "application/pdf", DataURI: "data:application/pdf;base64,AA==", ColumnIndex: 8},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, integrations.OutcomeUnconfirmed, outcome, "тело без JSON - отправлено, но не подтверждено")

	form := got.forms[0]
	assert.Equal(t, "true", form["hasFiles"])
	assert.Equal(t, "2", form["fileCount"])
	assert.Equal(t, "v.mp4", form["fileName0"])
	assert.Equal(t, "7", form["fileColumnIndex0"])
	assert.Equal(t, "a.pdf", form["fileName1"])
	assert.Equal(t, "8", form["fileColumnIndex1"])
}

func TestWriter_NoFilesFlags(t *testing.T) {
	fields, err := buildFields(integrations.InsertRequest{SheetName: "REPORT", RowData: nil})
	require.NoError(t, err)
	assert.Contains(t, fields, field{"hasFile", "false"})
	assert.Contains(t, fields, field{"rowData", "[]"})

	fields, err = buildFields(integrations.InsertRequest{SheetName: "Order Status", MultiFile: true})
	require.NoError(t, err)
	assert.Contains(t, fields, field{"hasFiles", "false"})

	_, err = buildFields(integrations.InsertRequest{Files: make([]integrations.Attachment, 2)})
	assert.Error(t, err)
}

func TestWriter_Non2xxCountsAsSent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusFound)
	}))
	defer srv.Close()

	outcome, err := New(srv.URL, time.Second, zap.NewNop()).Insert(context.Background(), integrations.InsertRequest{SheetName: "REPORT"})
	require.NoError(t, err)
	assert.Equal(t, integrations.OutcomeUnconfirmed, outcome)
}

// failFirst роняет первый запрос на транспортном уровне.
type failFirst struct {
	mu    sync.Mutex
	calls int
	next  http.RoundTripper
}

func (f *failFirst) RoundTrip(r *http.Request) (*http.Response, error) {
	f.mu.Lock()
	f.calls++
	n := f.calls
	f.mu.Unlock()
	if n == 1 {
		return nil, errors.New("connection reset")
	}
	return f.next.RoundTrip(r)
}

func TestWriter_FallsBackToURLEncoded(t *testing.T) {
	got := &captured{}
	srv := httptest.NewServer(got.handler(`{"status":"success"}`))
	defer srv.Close()

	w := New(srv.URL, time.Second, zap.NewNop())
	w.httpClient.Transport = &failFirst{next: http.DefaultTransport}

	outcome, err := w.Insert(context.Background(), integrations.InsertRequest{SheetName: "Followup Step", RowData: []string{"x"}})
	require.NoError(t, err)
	assert.Equal(t, integrations.OutcomeConfirmed, outcome)
	require.Len(t, got.contentType, 1)
	assert.Equal(t, "application/x-www-form-urlencoded", got.contentType[0])
	assert.Equal(t, "Followup Step", got.forms[0]["sheetName"])
}

func TestWriter_BothPathsFail(t *testing.T) {
	w := New("http://127.0.0.1:1", 200*time.Millisecond, zap.NewNop())
	_, err := w.Insert(context.Background(), integrations.InsertRequest{SheetName: "REPORT"})
	assert.Error(t, err)
}

func TestParseAck(t *testing.T) {
	assert.Equal(t, integrations.OutcomeConfirmed, parseAck([]byte(` {"status":"success","row":12} `)))
	assert.Equal(t, integrations.OutcomeUnconfirmed, parseAck([]byte(`{"status":"error"}`)))
	assert.Equal(t, integrations.OutcomeUnconfirmed, parseAck([]byte(`<html>`)))
	assert.Equal(t, integrations.OutcomeUnconfirmed, parseAck(nil))
}
