package s3

import (
	"errors"
	"fmt"
	"testing"

	"github.com/CybraneX-team/livekit-meeting/internal/core/domain"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "typed no such upload",
			err:  fmt.Errorf("operation error: %w", &types.NoSuchUpload{}),
			want: domain.ErrUploadNotFound,
		},
		{
			name: "typed no such key",
			err:  &types.NoSuchKey{},
			want: domain.ErrObjectNotFound,
		},
		{
			name: "head not found",
			err:  &types.NotFound{},
			want: domain.ErrObjectNotFound,
		},
		{
			name: "generic no such upload code",
			err:  &smithy.GenericAPIError{Code: "NoSuchUpload", Message: "gone"},
			want: domain.ErrUploadNotFound,
		},
		{
			name: "generic not found code",
			err:  &smithy.GenericAPIError{Code: "NotFound"},
			want: domain.ErrObjectNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapError(tt.err)

			assert.ErrorIs(t, got, tt.want)
			assert.ErrorIs(t, got, tt.err)
		})
	}
}

func TestMapError_Passthrough(t *testing.T) {
	err := &smithy.GenericAPIError{Code: "AccessDenied"}

	got := mapError(err)

	assert.Same(t, err, got)
	assert.False(t, errors.Is(got, domain.ErrObjectNotFound))
	assert.False(t, errors.Is(got, domain.ErrUploadNotFound))
}
