package cloudwriter

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	inputs []*s3.PutObjectInput
	bodies [][]byte
	err    error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.inputs = append(f.inputs, in)
	f.bodies = append(f.bodies, body)
	return &s3.PutObjectOutput{}, nil
}

func TestS3Writer_UploadsOnClose(t *testing.T) {
	client := &fakeS3{}
	factory := NewS3WriterFactoryFromClient(context.Background(), client)

	w, err := factory.NewWriter("reco-bucket", "recommendations/year=2024/data.parquet")
	require.NoError(t, err)

	_, err = w.Write([]byte("PAR1"))
	require.NoError(t, err)
	_, err = w.Write([]byte("rows"))
	require.NoError(t, err)
	assert.Empty(t, client.inputs)

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	require.Len(t, client.inputs, 1)
	assert.Equal(t, "reco-bucket", aws.ToString(client.inputs[0].Bucket))
	assert.Equal(t, "recommendations/year=2024/data.parquet", aws.ToString(client.inputs[0].Key))
	assert.Equal(t, "PAR1rows", string(client.bodies[0]))

	_, err = w.Write([]byte("late"))
	assert.Error(t, err)
}

func TestS3Writer_Errors(t *testing.T) {
	factory := NewS3WriterFactoryFromClient(context.Background(), &fakeS3{err: errors.New("access denied")})

	_, err := factory.NewWriter("", "key")
	assert.Error(t, err)

	w, err := factory.NewWriter("bucket", "key")
	require.NoError(t, err)
	err = w.Close()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "s3://bucket/key")
	assert.Contains(t, err.Error(), "access denied")
}

func TestNewFactory_UnsupportedProvider(t *testing.T) {
	_, err := NewFactory(context.Background(), "gcs", "europe-west1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gcs")
}
