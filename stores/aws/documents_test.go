package aws_test

import (
	"bytes"
	"context"
	"io"
	"sort"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xmlstore/core"
	s3store "xmlstore/stores/aws"
)

// fakeS3 keeps objects in a map and mimics the S3 error types the store
// inspects.
type fakeS3 struct {
	objects map[string][]byte
}

func newFakeS3() *fakeS3 { return &fakeS3{objects: map[string][]byte{}} }

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	if _, ok := f.objects[aws.ToString(in.Key)]; !ok {
		return nil, &types.NotFound{}
	}
	return &s3.HeadObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	keys := make([]string, 0, len(f.objects))
	for k := range f.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := &s3.ListObjectsV2Output{}
	prefix := aws.ToString(in.Prefix)
	for _, k := range keys {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			out.Contents = append(out.Contents, types.Object{Key: aws.String(k)})
		}
	}
	return out, nil
}

func TestS3Store_CRUD(t *testing.T) {
	client := newFakeS3()
	s := s3store.NewDocumentStoreWithClient(client, s3store.Options{Bucket: "docs", Prefix: "/xml/"})
	ctx := context.Background()

	assert.Equal(t, "s3://docs/xml/", s.Location())

	path, err := s.Save(ctx, &core.Document{Name: "a.xml", Content: []byte("<a/>")})
	require.NoError(t, err)
	assert.Equal(t, "s3://docs/xml/a.xml", path)
	assert.Contains(t, client.objects, "xml/a.xml")

	doc, err := s.Load(ctx, "a.xml")
	require.NoError(t, err)
	assert.Equal(t, "<a/>", string(doc.Content))

	require.NoError(t, s.Delete(ctx, "a.xml"))
	_, err = s.Load(ctx, "a.xml")
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "a.xml"), core.ErrNotFound)
}

func TestS3Store_ListIsFlat(t *testing.T) {
	client := newFakeS3()
	client.objects["xml/a.xml"] = []byte("<a/>")
	client.objects["xml/b.txt"] = []byte("b")
	client.objects["xml/deep/c.xml"] = []byte("<c/>")
	client.objects["other/d.xml"] = []byte("<d/>")

	s := s3store.NewDocumentStoreWithClient(client, s3store.Options{Bucket: "docs", Prefix: "xml"})
	names, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a.xml", "b.txt"}, names)
}

func TestNewDocumentStore_RequiresBucket(t *testing.T) {
	_, err := s3store.NewDocumentStore(context.Background(), s3store.Options{})
	assert.Error(t, err)
}
