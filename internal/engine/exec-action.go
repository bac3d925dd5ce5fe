package engine

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/flowgrid/engine/pkg/api"
	"github.com/flowgrid/engine/pkg/util"
)

// ActionExecutor performs the side-effecting nodes of a workflow. Side
// effects are simulated: each action validates its configuration, then
// returns a structured result describing what a live integration would
// have done. Results carry "simulated": true so downstream consumers can
// tell them apart from real integration output
type ActionExecutor struct{}

var (
	ErrRecipientInvalid = errors.New("recipient invalid")
	ErrRecordIDRequired = errors.New("record_id is required")
	ErrURLRequired      = errors.New("url is required")
)

func (*ActionExecutor) Subtypes() util.Set[api.NodeSubtype] {
	return api.Subtypes[api.CategoryAction]
}

func (e *ActionExecutor) Execute(
	_ context.Context, node *api.Node, _ api.Result,
) (api.Result, error) {
	switch node.Subtype {
	case api.ActionCreateRecord:
		return e.createRecord(node.Config)
	case api.ActionUpdateRecord:
		return e.mutateRecord(node)
	case api.ActionDeleteRecord:
		return e.mutateRecord(node)
	case api.ActionSendEmail:
		return e.sendEmail(node.Config)
	case api.ActionExternalAPI:
		return e.callExternalAPI(node.Config)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownNodeSubtype, node.Subtype)
	}
}

func (*ActionExecutor) createRecord(cfg api.Config) (api.Result, error) {
	table, _ := cfg["table"].(string)
	return api.Result{
		"action":    api.ActionCreateRecord,
		"simulated": true,
		"table":     table,
		"record_id": uuid.NewString(),
	}, nil
}

func (*ActionExecutor) mutateRecord(node *api.Node) (api.Result, error) {
	recordID, _ := node.Config["record_id"].(string)
	if recordID == "" {
		return nil, ErrRecordIDRequired
	}
	table, _ := node.Config["table"].(string)
	return api.Result{
		"action":    node.Subtype,
		"simulated": true,
		"table":     table,
		"record_id": recordID,
	}, nil
}

func (*ActionExecutor) sendEmail(cfg api.Config) (api.Result, error) {
	recipient, _ := cfg["to"].(string)
	if recipient == "" {
		return nil, ErrRecipientInvalid
	}
	subject, _ := cfg["subject"].(string)
	return api.Result{
		"action":    api.ActionSendEmail,
		"simulated": true,
		"recipient": recipient,
		"subject":   subject,
	}, nil
}

func (*ActionExecutor) callExternalAPI(cfg api.Config) (api.Result, error) {
	url, _ := cfg["url"].(string)
	if url == "" {
		return nil, ErrURLRequired
	}
	method, _ := cfg["method"].(string)
	if method == "" {
		method = http.MethodGet
	}
	return api.Result{
		"action":    api.ActionExternalAPI,
		"simulated": true,
		"url":       url,
		"method":    method,
		"status":    http.StatusOK,
	}, nil
}
