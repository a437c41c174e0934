package wishlist

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fogfish/it"
	"github.com/gin-gonic/gin"

	"cardvault/pkg/logger"
)

func init() { gin.SetMode(gin.TestMode) }

type emitted struct {
	detailType string
	detail     any
}

type emitterMock struct {
	sent []emitted
	err  error
}

func (m *emitterMock) Publish(ctx context.Context, detailType string, detail any) error {
	m.sent = append(m.sent, emitted{detailType, detail})
	return m.err
}

func ping(m *emitterMock) *httptest.ResponseRecorder {
	r := gin.New()
	NewHandler(m, logger.Nop()).RegisterRoutes(r.Group("/wishlist"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/wishlist/ping", nil))
	return w
}

func TestPingPublishes(t *testing.T) {
	m := &emitterMock{}
	w := ping(m)

	it.Ok(t).
		If(w.Code).Should().Equal(http.StatusOK).
		If(w.Body.String()).Should().Equal(`{"message":"Pong"}`).
		If(len(m.sent)).Should().Equal(1).
		If(m.sent[0].detailType).Should().Equal("PingEvent").
		If(m.sent[0].detail).Should().Equal(gin.H{"message": "Ping!"})
}

func TestPingBusFailure(t *testing.T) {
	w := ping(&emitterMock{err: errors.New("bus down")})
	it.Ok(t).If(w.Code).Should().Equal(http.StatusInternalServerError)
}
