package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fogfish/it"
	"github.com/gin-gonic/gin"

	"cardvault/pkg/logger"
)

func mirrorServer(t *testing.T, dataPath string) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	m := NewMirror(dataPath, "", logger.Nop())
	r := gin.New()
	m.RegisterRoutes(&r.RouterGroup)
	srv := httptest.NewServer(r)
	m.BaseURL = srv.URL
	t.Cleanup(srv.Close)
	return srv
}

func TestMirrorFeedsRenew(t *testing.T) {
	data := filepath.Join(t.TempDir(), "default-cards.json")
	catalog := "[" + singleFaced + "," + splitCard + "]"
	it.Ok(t).IfNil(os.WriteFile(data, []byte(catalog), 0o644))

	srv := mirrorServer(t, data)
	sink := &recordingSink{}
	r := &Renew{
		Bulk:            NewBulk(srv.URL + "/bulk-data"),
		EntryType:       "default_cards",
		ScratchPath:     filepath.Join(t.TempDir(), "scratch.json"),
		UpdateFrequency: 7,
		Sink:            sink,
		Log:             logger.Nop(),
		Now:             func() time.Time { return time.Unix(1_700_000_000, 0) },
	}

	rep, err := r.Run(context.Background())

	it.Ok(t).
		IfNil(err).
		If(rep.Written).Should().Equal(2)
}

func TestMirrorManifestDescribesFile(t *testing.T) {
	data := filepath.Join(t.TempDir(), "default-cards.json")
	it.Ok(t).IfNil(os.WriteFile(data, []byte("[]"), 0o644))
	srv := mirrorServer(t, data)

	entry, err := NewBulk(srv.URL + "/bulk-data").Locate(context.Background(), "default_cards")

	it.Ok(t).
		IfNil(err).
		If(entry.DownloadURI).Should().Equal(srv.URL + "/default-cards.json").
		If(entry.Size).Should().Equal(int64(2))
}

func TestMirrorWithoutDataFile(t *testing.T) {
	srv := mirrorServer(t, filepath.Join(t.TempDir(), "missing.json"))

	resp, err := http.Get(srv.URL + "/bulk-data")
	it.Ok(t).IfNil(err)
	resp.Body.Close()

	it.Ok(t).If(resp.StatusCode).Should().Equal(http.StatusServiceUnavailable)
}
