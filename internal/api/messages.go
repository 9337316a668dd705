// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/jeranaias/ava-tui/internal/model"
)

// =============================================================================
// WIRE TYPES
// =============================================================================

type listResponse struct {
	Messages []model.Message `json:"messages"`
}

type contentRequest struct {
	Content string `json:"content"`
}

// SendResult is the server's answer to SendMessage.
type SendResult struct {
	UserMessage model.Message `json:"user_message"`
	BotResponse model.Message `json:"bot_response"`
}

// EditResult is the server's answer to EditMessage.
type EditResult struct {
	ID        model.WireID `json:"id_message"`
	Content   string       `json:"content"`
	Timestamp string       `json:"timestamp"`
}

// DeleteResult is the server's answer to DeleteMessage.
type DeleteResult struct {
	ID     model.WireID `json:"id_message"`
	Status string       `json:"status"`
}

// =============================================================================
// CHAT OPERATIONS
// =============================================================================

// ListMessages fetches the conversation. Order is whatever the server sent;
// callers sort.
func (c *Client) ListMessages(ctx context.Context) ([]model.Message, error) {
	var resp listResponse
	if err := c.do(ctx, http.MethodGet, "/messages/", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Messages == nil {
		resp.Messages = []model.Message{}
	}
	return resp.Messages, nil
}

// SendMessage posts content and returns the stored user message together with
// the complete bot reply.
func (c *Client) SendMessage(ctx context.Context, content string) (*SendResult, error) {
	var resp SendResult
	if err := c.do(ctx, http.MethodPost, "/messages/", contentRequest{Content: content}, &resp); err != nil {
		return nil, err
	}
	resp.BotResponse.IsBot = true
	return &resp, nil
}

// EditMessage replaces the content of message id.
func (c *Client) EditMessage(ctx context.Context, id, content string) (*EditResult, error) {
	if id == "" {
		return nil, errors.New("edit: empty message id")
	}
	var resp EditResult
	if err := c.do(ctx, http.MethodPut, messagePath(id), contentRequest{Content: content}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteMessage removes message id.
func (c *Client) DeleteMessage(ctx context.Context, id string) (*DeleteResult, error) {
	if id == "" {
		return nil, errors.New("delete: empty message id")
	}
	var resp DeleteResult
	if err := c.do(ctx, http.MethodDelete, messagePath(id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
