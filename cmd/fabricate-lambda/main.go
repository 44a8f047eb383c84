package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/daniacca/fabricate/internal/fabricate"
)

var jsonHeader = map[string]string{
	"Content-Type": "application/json",
}

type selectRequest struct {
	Catalog           *fabricate.CatalogConfig `json:"catalog"`
	Inventory         fabricate.Record         `json:"inventory"`
	Required          fabricate.Record         `json:"required"`
	MaxCandidateTypes int                      `json:"max_candidate_types"`
	NodeLimit         int                      `json:"node_limit"`
}

type selectResult struct {
	Selection    fabricate.Record `json:"selection"`
	Essences     fabricate.Record `json:"essences"`
	Sufficient   bool             `json:"sufficient"`
	Deficit      int              `json:"deficit"`
	NodesVisited int              `json:"nodes_visited"`
	Truncated    bool             `json:"truncated"`
}

type handler struct {
	logger *zap.SugaredLogger
	// limits is the deployment's ceiling on request bounds.
	limits fabricate.SelectionOptions
}

// Environment variables bounding every selection. Unset or 0 means no
// ceiling.
const (
	envNodeLimit         = "FABRICATE_NODE_LIMIT"
	envMaxCandidateTypes = "FABRICATE_MAX_CANDIDATE_TYPES"
)

func limitsFromEnv(getenv func(string) string) (fabricate.SelectionOptions, error) {
	var opts fabricate.SelectionOptions
	for name, dst := range map[string]*int{
		envNodeLimit:         &opts.NodeLimit,
		envMaxCandidateTypes: &opts.MaxCandidateTypes,
	} {
		raw := getenv(name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return fabricate.SelectionOptions{}, fmt.Errorf("%s must be a non-negative integer, got %q", name, raw)
		}
		*dst = n
	}
	return opts, nil
}

func (h *handler) handle(_ context.Context, event events.LambdaFunctionURLRequest) (events.LambdaFunctionURLResponse, error) {
	body := event.Body
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return errResp(http.StatusBadRequest, "invalid base64 body")
		}
		body = string(decoded)
	}

	var req selectRequest
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		return errResp(http.StatusBadRequest, "invalid JSON: "+err.Error())
	}
	if req.Catalog == nil {
		return errResp(http.StatusBadRequest, "missing catalog field")
	}
	if len(req.Required) == 0 {
		return errResp(http.StatusBadRequest, "missing required field")
	}
	if req.MaxCandidateTypes < 0 || req.NodeLimit < 0 {
		return errResp(http.StatusBadRequest, "max_candidate_types and node_limit must not be negative")
	}

	if err := req.Required.Validate(); err != nil {
		return errResp(http.StatusBadRequest, "invalid required essences: "+err.Error())
	}
	if err := req.Inventory.Validate(); err != nil {
		return errResp(http.StatusBadRequest, "invalid inventory: "+err.Error())
	}

	catalog, err := fabricate.BuildCatalogFromConfig(*req.Catalog)
	if err != nil {
		return errResp(http.StatusBadRequest, "invalid catalog: "+err.Error())
	}
	required, err := catalog.EssencesFromRecord(req.Required)
	if err != nil {
		return errResp(http.StatusBadRequest, "invalid required essences: "+err.Error())
	}
	available, err := catalog.ComponentsFromRecord(req.Inventory)
	if err != nil {
		return errResp(http.StatusBadRequest, "invalid inventory: "+err.Error())
	}

	opts := fabricate.SelectionOptions{
		MaxCandidateTypes: req.MaxCandidateTypes,
		NodeLimit:         req.NodeLimit,
	}.Within(h.limits)
	sel := fabricate.NewEssenceSelection(required, opts).WithLogger(h.logger).Evaluate(available)
	h.logger.Infow("selection complete",
		"catalog", catalog.Name,
		"sufficient", sel.Sufficient,
		"nodes", sel.NodesVisited,
		"truncated", sel.Truncated,
	)

	resp := selectResult{
		Selection:    sel.Components.ToRecord(),
		Essences:     sel.Essences.ToRecord(),
		Sufficient:   sel.Sufficient,
		Deficit:      sel.Requirement.Deficit(),
		NodesVisited: sel.NodesVisited,
		Truncated:    sel.Truncated,
	}
	respJSON, err := json.Marshal(resp)
	if err != nil {
		return errResp(http.StatusInternalServerError, fmt.Sprintf("encode response: %v", err))
	}
	return events.LambdaFunctionURLResponse{StatusCode: http.StatusOK, Headers: jsonHeader, Body: string(respJSON)}, nil
}

func errResp(code int, msg string) (events.LambdaFunctionURLResponse, error) {
	body, _ := json.Marshal(map[string]string{"error": msg})
	return events.LambdaFunctionURLResponse{StatusCode: code, Headers: jsonHeader, Body: string(body)}, nil
}

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		logger = zap.NewNop()
	}
	defer func() { _ = logger.Sync() }()

	limits, err := limitsFromEnv(os.Getenv)
	if err != nil {
		logger.Sugar().Fatalf("invalid configuration: %v", err)
	}
	h := &handler{logger: logger.Sugar(), limits: limits}
	lambda.Start(h.handle)
}
