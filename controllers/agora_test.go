package controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAgoraTokenMissingChannel(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doJSON(t, app, http.MethodGet, "/agora/token", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAgoraTokenUnconfigured(t *testing.T) {
	// the test config carries no provider credentials; the route must fail
	// with a fixed 500, not crash
	app, _ := newTestApp(t)

	resp := doJSON(t, app, http.MethodGet, "/agora/token?channelName=42", "", nil)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}
