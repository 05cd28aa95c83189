package handler

import (
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/florapress/bookshop/internal/repository"
)

const spendQuotaSQL = "UPDATE purchases SET downloads_remaining = downloads_remaining - 1"

func TestDownloadStreamsPurchasedBook(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dracula.pdf"), []byte("%PDF-1.4 test"), 0o644))

	mock.ExpectExec(regexp.QuoteMeta(spendQuotaSQL)).
		WithArgs(uint64(7), "dracula").
		WillReturnResult(sqlmock.NewResult(0, 1))

	cfg := testConfig()
	cfg.BooksDir = dir
	h := NewDownloadHandler(cfg, repository.NewPurchaseRepo(db))
	c, rec := newHandlerContext(t, http.MethodGet, "/v1/downloads/dracula", "", 7)
	c.SetParamNames("slug")
	c.SetParamValues("dracula")

	require.NoError(t, h.Download(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "dracula.pdf")
	assert.Equal(t, "%PDF-1.4 test", rec.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDownloadNotPurchased(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(spendQuotaSQL)).
		WithArgs(uint64(7), "dracula").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT COUNT(*) FROM purchases WHERE user_id=? AND book_slug=?")).
		WithArgs(uint64(7), "dracula").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	h := NewDownloadHandler(testConfig(), repository.NewPurchaseRepo(db))
	c, rec := newHandlerContext(t, http.MethodGet, "/v1/downloads/dracula", "", 7)
	c.SetParamNames("slug")
	c.SetParamValues("dracula")

	require.NoError(t, h.Download(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "not purchased")
}

func TestDownloadQuotaExhausted(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(spendQuotaSQL)).
		WithArgs(uint64(7), "dracula").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT COUNT(*) FROM purchases WHERE user_id=? AND book_slug=?")).
		WithArgs(uint64(7), "dracula").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	h := NewDownloadHandler(testConfig(), repository.NewPurchaseRepo(db))
	c, rec := newHandlerContext(t, http.MethodGet, "/v1/downloads/dracula", "", 7)
	c.SetParamNames("slug")
	c.SetParamValues("dracula")

	require.NoError(t, h.Download(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "no downloads remaining")
}

func TestDownloadUnknownBook(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	h := NewDownloadHandler(testConfig(), repository.NewPurchaseRepo(db))
	c, rec := newHandlerContext(t, http.MethodGet, "/v1/downloads/ghost", "", 7)
	c.SetParamNames("slug")
	c.SetParamValues("ghost")

	require.NoError(t, h.Download(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown book")
}

func TestDownloadMissingFileAfterSpend(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(spendQuotaSQL)).
		WithArgs(uint64(7), "dracula").
		WillReturnResult(sqlmock.NewResult(0, 1))

	cfg := testConfig()
	cfg.BooksDir = t.TempDir() // no files in it
	h := NewDownloadHandler(cfg, repository.NewPurchaseRepo(db))
	c, rec := newHandlerContext(t, http.MethodGet, "/v1/downloads/dracula", "", 7)
	c.SetParamNames("slug")
	c.SetParamValues("dracula")

	require.NoError(t, h.Download(c))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestDownloadWithoutSession(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	h := NewDownloadHandler(testConfig(), repository.NewPurchaseRepo(db))
	c, rec := newHandlerContext(t, http.MethodGet, "/v1/downloads/dracula", "", 0)
	c.SetParamNames("slug")
	c.SetParamValues("dracula")

	require.NoError(t, h.Download(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
