package blogclient_test

import (
	"errors"
	"net"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	blogclient "github.com/goliatone/go-blog-client"
)

func TestClassifyStatusTable(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		message string
		kind    blogclient.FaultKind
		want    string
	}{
		{
			name:   "network",
			status: 0,
			kind:   blogclient.FaultNetwork,
			want:   "Network error. Please check your connection.",
		},
		{
			name:   "bad request default",
			status: 400,
			kind:   blogclient.FaultBadRequest,
			want:   "Bad request. Please check your input.",
		},
		{
			name:    "bad request backend message wins",
			status:  400,
			message: "title is required",
			kind:    blogclient.FaultBadRequest,
			want:    "title is required",
		},
		{
			name:    "unauthorized keeps fixed wording",
			status:  401,
			message: "token invalid",
			kind:    blogclient.FaultUnauthorized,
			want:    "Unauthorized. Please log in again.",
		},
		{
			name:   "forbidden",
			status: 403,
			kind:   blogclient.FaultForbidden,
			want:   "Access forbidden. You don't have permission.",
		},
		{
			name:    "not found backend message wins",
			status:  404,
			message: "Post not found",
			kind:    blogclient.FaultNotFound,
			want:    "Post not found",
		},
		{
			name:   "conflict",
			status: 409,
			kind:   blogclient.FaultConflict,
			want:   "Conflict. Resource already exists.",
		},
		{
			name:   "validation",
			status: 422,
			kind:   blogclient.FaultValidation,
			want:   "Validation error. Please check your input.",
		},
		{
			name:   "server",
			status: 500,
			kind:   blogclient.FaultServer,
			want:   "Server error. Please try again later.",
		},
		{
			name:   "unavailable",
			status: 503,
			kind:   blogclient.FaultUnavailable,
			want:   "Service unavailable. Please try again later.",
		},
		{
			name:   "unrecognized lands in unknown",
			status: 418,
			kind:   blogclient.FaultUnknown,
			want:   "Error 418: I'm a teapot",
		},
		{
			name:    "unknown keeps backend message",
			status:  502,
			message: "upstream exploded",
			kind:    blogclient.FaultUnknown,
			want:    "upstream exploded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fault := blogclient.ClassifyStatus(tt.status, tt.message)
			require.NotNil(t, fault)
			assert.Equal(t, tt.kind, blogclient.KindOf(fault))
			assert.Equal(t, tt.want, fault.Message)
		})
	}
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, blogclient.FaultKind(""), blogclient.KindOf(nil))
	assert.Equal(t, blogclient.FaultUnknown, blogclient.KindOf(errors.New("plain error")))
	assert.Equal(t, blogclient.FaultUnauthorized, blogclient.KindOf(blogclient.ErrNoRefreshCredential))
}

func TestIsUnauthorizedFault(t *testing.T) {
	assert.True(t, blogclient.IsUnauthorizedFault(blogclient.ClassifyStatus(401, "")))
	assert.False(t, blogclient.IsUnauthorizedFault(blogclient.ClassifyStatus(403, "")))
	assert.False(t, blogclient.IsUnauthorizedFault(nil))
}

func TestClassifyNetworkError(t *testing.T) {
	cause := &net.OpError{Op: "dial", Err: errors.New("connection refused")}
	fault := blogclient.ClassifyNetworkError(cause)

	assert.Equal(t, blogclient.FaultNetwork, blogclient.KindOf(fault))

	var richErr *goerrors.Error
	require.True(t, goerrors.As(fault, &richErr))
	assert.Equal(t, blogclient.TextCodeNetworkError, richErr.TextCode)
}
