package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/kirillkom/accounting-doc-router/internal/core/domain"
	"github.com/kirillkom/accounting-doc-router/internal/infrastructure/resilience"
)

const uploadOperation = "upload.remote"

// Client sends files to the document storage endpoint as a multipart form
// with a single "file" part. The endpoint answers with the server-side name.
type Client struct {
	endpoint   string
	token      string
	httpClient *http.Client
	executor   *resilience.Executor
}

type Options struct {
	Token              string
	Timeout            time.Duration
	HTTPClient         *http.Client
	ResilienceExecutor *resilience.Executor
}

func New(endpoint string, options Options) (*Client, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, errors.New("remote upload endpoint is empty")
	}
	httpClient := options.HTTPClient
	if httpClient == nil {
		timeout := options.Timeout
		if timeout <= 0 {
			timeout = 60 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		endpoint:   endpoint,
		token:      strings.TrimSpace(options.Token),
		httpClient: httpClient,
		executor:   options.ResilienceExecutor,
	}, nil
}

type uploadResponse struct {
	ServerFilename string `json:"server_filename"`
	Filename       string `json:"filename"`
}

// Upload makes exactly one attempt. The breaker still records failures so a
// dead endpoint fails the rest of a batch fast.
func (c *Client) Upload(ctx context.Context, file domain.InputFile) (domain.UploadReceipt, error) {
	var receipt domain.UploadReceipt
	call := func(ctx context.Context) error {
		var err error
		receipt, err = c.send(ctx, file)
		return err
	}

	var err error
	if c.executor != nil {
		err = c.executor.Execute(ctx, uploadOperation, call, resilience.NoRetry(classifyUploadError))
	} else {
		err = call(ctx)
	}
	if err != nil {
		return domain.UploadReceipt{}, wrapTemporaryIfNeeded(err)
	}
	return receipt, nil
}

func (c *Client) send(ctx context.Context, file domain.InputFile) (domain.UploadReceipt, error) {
	body, contentType, err := encodeMultipart(file)
	if err != nil {
		return domain.UploadReceipt{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return domain.UploadReceipt{}, fmt.Errorf("create upload request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.UploadReceipt{}, fmt.Errorf("upload request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return domain.UploadReceipt{}, &HTTPStatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(raw),
		}
	}

	var out uploadResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&out); err != nil {
		return domain.UploadReceipt{}, fmt.Errorf("decode upload response: %w", err)
	}
	name := strings.TrimSpace(out.ServerFilename)
	if name == "" {
		name = strings.TrimSpace(out.Filename)
	}
	if name == "" {
		return domain.UploadReceipt{}, errors.New("upload response carries no server filename")
	}
	return domain.UploadReceipt{ServerFilename: name}, nil
}

func encodeMultipart(file domain.InputFile) (io.Reader, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(file.Name)))
	mediaType := file.MediaType
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}
	header.Set("Content-Type", mediaType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("create multipart part: %w", err)
	}
	if _, err := part.Write(file.Data); err != nil {
		return nil, "", fmt.Errorf("write multipart part: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}
	return &buf, writer.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
