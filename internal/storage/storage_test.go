package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectName(t *testing.T) {
	name := ObjectName("resumes", "64b7f0c2a1b2c3d4e5f60718", "Jane Doe CV.PDF")
	assert.True(t, strings.HasPrefix(name, "resumes/64b7f0c2a1b2c3d4e5f60718/"))
	assert.True(t, strings.HasSuffix(name, ".pdf"))

	other := ObjectName("resumes", "64b7f0c2a1b2c3d4e5f60718", "Jane Doe CV.PDF")
	assert.NotEqual(t, name, other)

	assert.False(t, strings.Contains(ObjectName("logos", "u1", "noext"), "."))
}

func TestNewRejectsBadOptions(t *testing.T) {
	_, err := New(context.Background(), Options{Driver: "gcs"})
	require.Error(t, err)

	_, err = New(context.Background(), Options{Driver: "ftp", Bucket: "b"})
	require.Error(t, err)

	_, err = New(context.Background(), Options{Driver: "s3", Bucket: "b"})
	require.Error(t, err)
}

func TestS3UploaderImplementsStore(t *testing.T) {
	var _ Store = (*S3Uploader)(nil)
	var _ Signer = (*S3Uploader)(nil)
	var _ Store = (*GCSUploader)(nil)
	var _ Signer = (*GCSUploader)(nil)
}
