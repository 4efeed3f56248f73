package s3

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockS3 struct {
	mock.Mock
}

func (m *mockS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.PutObjectOutput), args.Error(1)
}

func TestNewUploader_Validation(t *testing.T) {
	_, err := NewUploader(nil, "bucket", "key")
	assert.Error(t, err)

	_, err = NewUploader(new(mockS3), "", "key")
	assert.Error(t, err)

	_, err = NewUploader(new(mockS3), "bucket", "")
	assert.Error(t, err)
}

func TestUploader_Upload(t *testing.T) {
	body := []byte("week_start,week_end,start_month,percentage\n")

	t.Run("success", func(t *testing.T) {
		client := new(mockS3)
		var captured *s3.PutObjectInput
		client.On("PutObject", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				captured = args.Get(1).(*s3.PutObjectInput)
			}).
			Return(&s3.PutObjectOutput{}, nil)

		u, err := NewUploader(client, "reports", "alloc/weeks.csv")
		require.NoError(t, err)
		require.NoError(t, u.Upload(context.Background(), body, "text/csv"))
		client.AssertExpectations(t)

		require.NotNil(t, captured)
		assert.Equal(t, "reports", aws.ToString(captured.Bucket))
		assert.Equal(t, "alloc/weeks.csv", aws.ToString(captured.Key))
		assert.Equal(t, "text/csv", aws.ToString(captured.ContentType))
		assert.Equal(t, int64(len(body)), aws.ToInt64(captured.ContentLength))
		got, err := io.ReadAll(captured.Body)
		require.NoError(t, err)
		assert.Equal(t, body, got)
	})

	t.Run("error", func(t *testing.T) {
		client := new(mockS3)
		client.On("PutObject", mock.Anything, mock.Anything).Return(nil, errors.New("access denied"))

		u, err := NewUploader(client, "reports", "weeks.csv")
		require.NoError(t, err)
		err = u.Upload(context.Background(), body, "text/csv")
		assert.EqualError(t, err, "put s3://reports/weeks.csv: access denied")
	})
}
