// Package api wraps the FitDesk REST backend. The console core never builds
// HTTP requests itself; everything goes through this client, and every
// response is mapped onto the structured error kinds the UI knows how to
// present.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/fitdesk/fitdesk/internal/errors"
	"github.com/fitdesk/fitdesk/internal/logger"
)

const defaultTimeout = 30 * time.Second

// Client talks to the FitDesk admin REST API.
type Client struct {
	baseURL string
	token   string
	httpc   *http.Client
}

// New creates a client for the given base URL and admin token.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpc:   &http.Client{Timeout: defaultTimeout},
	}
}

// errorBody is the backend's error envelope.
type errorBody struct {
	Error string `json:"error"`
}

// do issues the request with auth headers and decodes a 2xx body into out.
// Non-2xx statuses become structured errors carrying the server error code.
func (c *Client) do(req *http.Request, op errors.Op, out interface{}) error {
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		if req.Context().Err() == context.DeadlineExceeded {
			return errors.E(op, errors.KindTimeout, err)
		}
		return errors.E(op, errors.KindNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		kind := kindForStatus(resp.StatusCode)
		err := errors.E(op, kind, fmt.Sprintf("server returned %s", resp.Status))
		var body errorBody
		if decodeErr := json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&body); decodeErr == nil && body.Error != "" {
			err = errors.WithCode(err, body.Error)
		}
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.E(op, errors.KindNetwork, "failed to decode response", err)
	}
	return nil
}

func kindForStatus(status int) errors.Kind {
	switch {
	case status == http.StatusNotFound:
		return errors.KindNotFound
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return errors.KindAuth
	case status == http.StatusRequestEntityTooLarge:
		return errors.KindUpload
	case status >= 400 && status < 500:
		return errors.KindInvalid
	default:
		return errors.KindNetwork
	}
}

// ListConversations fetches one page of the searchable conversation list.
func (c *Client) ListConversations(ctx context.Context, search string, page, pageSize int) (*ConversationPage, error) {
	q := url.Values{}
	if search != "" {
		q.Set("search", search)
	}
	q.Set("page", strconv.Itoa(page))
	q.Set("pageSize", strconv.Itoa(pageSize))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/conversations?"+q.Encode(), nil)
	if err != nil {
		return nil, errors.E(errors.Op("api.ListConversations"), errors.KindInvalid, err)
	}

	var out ConversationPage
	if err := c.do(req, errors.Op("api.ListConversations"), &out); err != nil {
		return nil, err
	}
	logger.ComponentLogger("api").Debug("conversations fetched",
		"search", search, "page", page, "count", len(out.Conversations), "hasMore", out.HasMore)
	return &out, nil
}

// ListMessages fetches up to pageSize messages of a conversation, newest
// first. With beforeID > 0 only messages with smaller ids are returned, which
// is the backward-pagination path.
func (c *Client) ListMessages(ctx context.Context, conversationID, beforeID int64, pageSize int) ([]Message, error) {
	q := url.Values{}
	if beforeID > 0 {
		q.Set("beforeId", strconv.FormatInt(beforeID, 10))
	}
	q.Set("pageSize", strconv.Itoa(pageSize))

	u := fmt.Sprintf("%s/conversations/%d/messages?%s", c.baseURL, conversationID, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, errors.E(errors.Op("api.ListMessages"), errors.KindInvalid, err)
	}

	var out struct {
		Messages []Message `json:"messages"`
	}
	if err := c.do(req, errors.Op("api.ListMessages"), &out); err != nil {
		return nil, err
	}
	return out.Messages, nil
}

// SendText sends a text message. Exactly one of conversationID or memberID
// must be non-zero; addressing a bare member id makes the backend create the
// conversation and return it alongside the message.
func (c *Client) SendText(ctx context.Context, conversationID, memberID int64, content string) (*SendResult, error) {
	payload := map[string]interface{}{"type": MessageText, "content": content}

	var u string
	if conversationID > 0 {
		u = fmt.Sprintf("%s/conversations/%d/messages", c.baseURL, conversationID)
	} else {
		payload["userId"] = memberID
		u = c.baseURL + "/conversations/messages"
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.E(errors.Op("api.SendText"), errors.KindInvalid, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return nil, errors.E(errors.Op("api.SendText"), errors.KindInvalid, err)
	}
	req.Header.Set("Content-Type", "application/json")

	var out SendResult
	if err := c.do(req, errors.Op("api.SendText"), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SendFile uploads the file at path as a multipart message. Dual addressing
// works the same way as SendText. The server stores the file and answers
// with a message referencing its signed URL.
func (c *Client) SendFile(ctx context.Context, conversationID, memberID int64, path string) (*SendResult, error) {
	op := errors.Op("api.SendFile")

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.UploadFailed(filepath.Base(path), err)
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, errors.UploadFailed(filepath.Base(path), err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, errors.UploadFailed(filepath.Base(path), err)
	}
	if memberID > 0 && conversationID == 0 {
		if err := mw.WriteField("userId", strconv.FormatInt(memberID, 10)); err != nil {
			return nil, errors.UploadFailed(filepath.Base(path), err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, errors.UploadFailed(filepath.Base(path), err)
	}

	var u string
	if conversationID > 0 {
		u = fmt.Sprintf("%s/conversations/%d/messages", c.baseURL, conversationID)
	} else {
		u = c.baseURL + "/conversations/messages"
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, &buf)
	if err != nil {
		return nil, errors.E(op, errors.KindInvalid, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out SendResult
	if err := c.do(req, op, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MarkSeen acknowledges a conversation. The endpoint is idempotent, so
// repeated calls for an already-seen conversation are harmless.
func (c *Client) MarkSeen(ctx context.Context, conversationID int64) error {
	u := fmt.Sprintf("%s/conversations/%d/seen", c.baseURL, conversationID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, nil)
	if err != nil {
		return errors.E(errors.Op("api.MarkSeen"), errors.KindInvalid, err)
	}
	return c.do(req, errors.Op("api.MarkSeen"), nil)
}
