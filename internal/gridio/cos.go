package gridio

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"

	"github.com/tencentyun/cos-go-sdk-v5"

	gerrors "github.com/gridrelax/gridrelax/pkg/errors"
	"github.com/gridrelax/gridrelax/pkg/grid"
)

// COSConfig holds the Tencent COS connection parameters for one grid object.
type COSConfig struct {
	Bucket    string
	Region    string
	SecretID  string
	SecretKey string
	Domain    string // e.g. "myqcloud.com"
	Scheme    string // e.g. "https"
	Key       string // object key holding the grid file
}

// COSFile implements ReadWriter against a single Tencent COS object, issuing
// ranged GETs and position-addressed appends keyed by the same (d, allocStart, rows)
// contract as LocalFile. Unlike the teacher's internal/storage/cos.go, which
// only moved whole objects, this backend addresses byte ranges so a peer can
// fetch or publish just its row strip.
type COSFile struct {
	client *cos.Client
	key    string
}

// NewCOSFile builds a COSFile for cfg.Key.
func NewCOSFile(cfg *COSConfig) (*COSFile, error) {
	if cfg.Bucket == "" || cfg.Region == "" {
		return nil, gerrors.New(gerrors.CodeInvalidArgument, "bucket and region are required for COS storage")
	}
	if cfg.SecretID == "" || cfg.SecretKey == "" {
		return nil, gerrors.New(gerrors.CodeInvalidArgument, "credentials are required for COS storage")
	}
	if cfg.Key == "" {
		return nil, gerrors.New(gerrors.CodeInvalidArgument, "object key is required for COS storage")
	}

	domain := cfg.Domain
	if domain == "" {
		domain = "myqcloud.com"
	}
	scheme := cfg.Scheme
	if scheme == "" {
		scheme = "https"
	}

	bucketURL, err := url.Parse(fmt.Sprintf("%s://%s.cos.%s.%s", scheme, cfg.Bucket, cfg.Region, domain))
	if err != nil {
		return nil, gerrors.Wrap(gerrors.CodeInvalidArgument, "failed to parse bucket URL", err)
	}
	serviceURL, err := url.Parse(fmt.Sprintf("%s://cos.%s.%s", scheme, cfg.Region, domain))
	if err != nil {
		return nil, gerrors.Wrap(gerrors.CodeInvalidArgument, "failed to parse service URL", err)
	}

	client := cos.NewClient(&cos.BaseURL{
		BucketURL:  bucketURL,
		ServiceURL: serviceURL,
	}, &http.Client{
		Transport: &cos.AuthorizationTransport{
			SecretID:  cfg.SecretID,
			SecretKey: cfg.SecretKey,
		},
	})

	return &COSFile{client: client, key: cfg.Key}, nil
}

// ReadRows issues a ranged GET for rows [allocStart, allocStart+rows).
func (c *COSFile) ReadRows(ctx context.Context, d, allocStart, rows int) (*grid.Grid, error) {
	if err := validateRange(d, allocStart, rows); err != nil {
		return nil, err
	}

	start, end := byteRange(d, allocStart, rows)
	resp, err := c.client.Object.Get(ctx, c.key, &cos.ObjectGetOptions{
		Range: fmt.Sprintf("bytes=%d-%d", start, end-1),
	})
	if err != nil {
		return nil, gerrors.Wrap(gerrors.CodeIOError, "failed to fetch grid rows from COS", err)
	}
	defer resp.Body.Close()

	buf, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, gerrors.Wrap(gerrors.CodeIOError, "failed to read COS response body", err)
	}
	if int64(len(buf)) != end-start {
		return nil, gerrors.New(gerrors.CodeIOError, "short read from COS ranged GET")
	}

	g := grid.NewRect(rows, d)
	for r := 0; r < rows; r++ {
		for col := 0; col < d; col++ {
			off := (r*d + col) * bytesPerFloat
			bits := binary.NativeEndian.Uint64(buf[off : off+bytesPerFloat])
			g.Set(r, col, math.Float64frombits(bits))
		}
	}
	return g, nil
}

// WriteRows publishes g's byte span via COS's append-object API, which
// writes at an explicit byte position without multipart upload bookkeeping.
// COS requires appends to land at the object's current length, so strips
// must be written in increasing allocStart order against a freshly created
// (empty) object; this is a real constraint the local backend does not
// share, since ReadAt/WriteAt address arbitrary offsets.
func (c *COSFile) WriteRows(ctx context.Context, d, allocStart int, g *grid.Grid) error {
	if err := validateRange(d, allocStart, g.Rows); err != nil {
		return err
	}
	if g.Cols != d {
		return gerrors.New(gerrors.CodeInvalidArgument, "grid width does not match d")
	}

	buf := make([]byte, g.Rows*d*bytesPerFloat)
	for r := 0; r < g.Rows; r++ {
		row := g.Row(r)
		for col := 0; col < d; col++ {
			off := (r*d + col) * bytesPerFloat
			binary.NativeEndian.PutUint64(buf[off:off+bytesPerFloat], math.Float64bits(row[col]))
		}
	}

	start, _ := byteRange(d, allocStart, g.Rows)
	if _, err := c.client.Object.Append(ctx, c.key, int(start), bytes.NewReader(buf), nil); err != nil {
		return gerrors.Wrap(gerrors.CodeIOError, "failed to publish grid rows to COS", err)
	}
	return nil
}

// Close is a no-op: the underlying cos.Client holds no file descriptor.
func (c *COSFile) Close() error {
	return nil
}
