package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/daniacca/fabricate/internal/fabricate"
	"github.com/daniacca/fabricate/internal/fabricate/notifiers"
)

// extractActorID extracts the actor ID from a path like "/actors/{actorID}/..."
// Returns the actor ID and the remaining path, or empty string if not found
func extractActorID(path string) (fabricate.ActorID, string) {
	if !strings.HasPrefix(path, "/actors/") {
		return "", ""
	}

	rest := strings.TrimPrefix(path, "/actors/")
	idx := strings.Index(rest, "/")
	if idx == -1 {
		return fabricate.ActorID(rest), ""
	}
	return fabricate.ActorID(rest[:idx]), rest[idx:]
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorStatus maps engine errors to HTTP status codes.
func errorStatus(err error) int {
	var resErr *fabricate.ResolutionError
	var valErr *fabricate.ValidationError
	switch {
	case errors.As(err, &resErr), errors.As(err, &valErr), errors.Is(err, fabricate.ErrInvalidQuantity):
		return http.StatusBadRequest
	case errors.Is(err, fabricate.ErrActorNotFound),
		errors.Is(err, fabricate.ErrRecipeNotFound),
		errors.Is(err, fabricate.ErrComponentNotFound),
		errors.Is(err, fabricate.ErrEssenceNotFound),
		errors.Is(err, fabricate.ErrSnapshotNotFound):
		return http.StatusNotFound
	case errors.Is(err, fabricate.ErrActorExists),
		errors.Is(err, fabricate.ErrNotCraftable),
		errors.Is(err, fabricate.ErrInsufficient),
		errors.Is(err, fabricate.ErrNothingToSalvage):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// GET /catalog returns the active catalog config.
// POST /catalog replaces it; body: CatalogConfig JSON
func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		catalog := s.manager.Catalog()
		if catalog == nil {
			http.Error(w, "no catalog loaded", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, catalog.Config())
	case http.MethodPost:
		defer r.Body.Close()
		var cfg fabricate.CatalogConfig
		if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
			http.Error(w, "invalid catalog json: "+err.Error(), http.StatusBadRequest)
			return
		}
		if _, err := s.applyCatalog(r.Context(), cfg); err != nil {
			status := errorStatus(err)
			if status == http.StatusInternalServerError {
				s.logger.Errorf("Failed to apply catalog: name=%s error=%v", cfg.Name, err)
			}
			http.Error(w, "cannot build catalog: "+err.Error(), status)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("catalog loaded"))
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// POST /select
// Body: { "required": {...}, "available": {...}, "max_candidate_types": n, "node_limit": n }
// Runs an essence selection against an ad-hoc pool, without any inventory.
type selectRequest struct {
	Required          fabricate.Record `json:"required"`
	Available         fabricate.Record `json:"available"`
	MaxCandidateTypes *int             `json:"max_candidate_types,omitempty"`
	NodeLimit         *int             `json:"node_limit,omitempty"`
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	defer r.Body.Close()

	catalog := s.manager.Catalog()
	if catalog == nil {
		http.Error(w, "no catalog loaded", http.StatusBadRequest)
		return
	}

	var req selectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := validateRecords(req.Required, req.Available); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	required, err := catalog.EssencesFromRecord(req.Required)
	if err != nil {
		http.Error(w, "invalid required essences: "+err.Error(), http.StatusBadRequest)
		return
	}
	available, err := catalog.ComponentsFromRecord(req.Available)
	if err != nil {
		http.Error(w, "invalid available components: "+err.Error(), http.StatusBadRequest)
		return
	}

	opts := s.options
	if req.MaxCandidateTypes != nil {
		opts.MaxCandidateTypes = *req.MaxCandidateTypes
	}
	if req.NodeLimit != nil {
		opts.NodeLimit = *req.NodeLimit
	}
	if opts.MaxCandidateTypes < 0 || opts.NodeLimit < 0 {
		http.Error(w, "max_candidate_types and node_limit must not be negative", http.StatusBadRequest)
		return
	}
	// Request bounds may only tighten the server's.
	opts = opts.Within(s.options)

	start := time.Now()
	sel := fabricate.NewEssenceSelection(required, opts).
		WithLogger(s.logger).
		Evaluate(available)
	s.metrics.ObserveSelection(sel, time.Since(start))

	writeJSON(w, http.StatusOK, newSelectionView(sel))
}

// validateRecords checks the required and available records of a select
// request.
func validateRecords(required, available fabricate.Record) error {
	if err := required.Validate(); err != nil {
		return fmt.Errorf("invalid required essences: %w", err)
	}
	if err := available.Validate(); err != nil {
		return fmt.Errorf("invalid available components: %w", err)
	}
	return nil
}

// GET /actors
// List all actor IDs
func (s *Server) handleListActors(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	actorIDs := s.manager.ListInventories()

	ids := make([]string, len(actorIDs))
	for i, id := range actorIDs {
		ids[i] = string(id)
	}
	writeJSON(w, http.StatusOK, map[string][]string{"actors": ids})
}

// handleActorRoutes routes requests to actor-specific handlers
// Handles paths like /actors/{actorID}/inventory, /actors/{actorID}/recipes/{recipeID}/craft, etc.
func (s *Server) handleActorRoutes(w http.ResponseWriter, r *http.Request) {
	actorID, remainingPath := extractActorID(r.URL.Path)
	if actorID == "" {
		http.Error(w, "actor ID is required in path: /actors/{actorID}/...", http.StatusBadRequest)
		return
	}
	if s.manager.Catalog() == nil {
		http.Error(w, "no catalog loaded", http.StatusBadRequest)
		return
	}

	switch {
	case remainingPath == "" && r.Method == http.MethodPost:
		s.handleCreateActor(w, r, actorID)
		return
	case remainingPath == "" && r.Method == http.MethodDelete:
		s.handleDeleteActor(w, r, actorID)
		return
	}

	inv, exists := s.manager.GetInventory(actorID)
	if !exists {
		http.Error(w, "actor not found", http.StatusNotFound)
		return
	}

	switch {
	case remainingPath == "/inventory" && r.Method == http.MethodGet:
		writeJSON(w, http.StatusOK, newInventoryView(inv))
	case remainingPath == "/inventory" && r.Method == http.MethodPost:
		s.handleUpdateInventory(w, r, inv)
	case remainingPath == "/select" && r.Method == http.MethodPost:
		s.handleActorSelect(w, r, inv)
	case strings.HasPrefix(remainingPath, "/recipes/"):
		s.handleRecipeRoutes(w, r, inv, strings.TrimPrefix(remainingPath, "/recipes/"))
	case strings.HasPrefix(remainingPath, "/salvage/") && r.Method == http.MethodPost:
		s.handleSalvage(w, r, inv, fabricate.ComponentID(strings.TrimPrefix(remainingPath, "/salvage/")))
	case remainingPath == "/snapshot" && r.Method == http.MethodPost:
		s.handleSaveSnapshot(w, r, inv)
	case remainingPath == "/snapshot" && r.Method == http.MethodGet:
		s.handleGetSnapshot(w, r, inv)
	case remainingPath == "/restore" && r.Method == http.MethodPost:
		s.handleRestoreSnapshot(w, r, inv)
	default:
		http.Error(w, "not found", http.StatusNotFound)
	}
}

// POST /actors/{actorID}
// Optional body: { "contents": {...} }
type createActorRequest struct {
	Contents fabricate.Record `json:"contents"`
}

func (s *Server) handleCreateActor(w http.ResponseWriter, r *http.Request, actorID fabricate.ActorID) {
	defer r.Body.Close()

	var req createActorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := req.Contents.Validate(); err != nil {
		http.Error(w, "invalid contents: "+err.Error(), http.StatusBadRequest)
		return
	}
	contents, err := s.manager.Catalog().ComponentsFromRecord(req.Contents)
	if err != nil {
		http.Error(w, "invalid contents: "+err.Error(), http.StatusBadRequest)
		return
	}

	inv, err := s.manager.CreateInventory(actorID, contents)
	if err != nil {
		http.Error(w, err.Error(), errorStatus(err))
		return
	}
	s.persistInventory(r.Context(), inv)
	s.logger.Infof("Actor created: actor_id=%s contents=%s", actorID, contents)

	writeJSON(w, http.StatusCreated, newInventoryView(inv))
}

// DELETE /actors/{actorID}
func (s *Server) handleDeleteActor(w http.ResponseWriter, r *http.Request, actorID fabricate.ActorID) {
	if err := s.manager.DeleteInventory(actorID); err != nil {
		s.logger.Warnf("Failed to delete actor: actor_id=%s error=%v", actorID, err)
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if s.store != nil {
		if err := s.store.DeleteInventory(r.Context(), actorID); err != nil {
			s.logger.Warnf("Failed to delete stored inventory: actor_id=%s error=%v", actorID, err)
		}
	}
	s.logger.Infof("Actor deleted: actor_id=%s", actorID)

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("actor deleted"))
}

// POST /actors/{actorID}/inventory
// Body: { "add": {...}, "remove": {...} }
// The removal is applied first and is all-or-nothing.
type updateInventoryRequest struct {
	Add    fabricate.Record `json:"add"`
	Remove fabricate.Record `json:"remove"`
}

func (s *Server) handleUpdateInventory(w http.ResponseWriter, r *http.Request, inv *fabricate.Inventory) {
	defer r.Body.Close()

	var req updateInventoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := req.Add.Validate(); err != nil {
		http.Error(w, "invalid add: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := req.Remove.Validate(); err != nil {
		http.Error(w, "invalid remove: "+err.Error(), http.StatusBadRequest)
		return
	}
	catalog := inv.Catalog()
	add, err := catalog.ComponentsFromRecord(req.Add)
	if err != nil {
		http.Error(w, "invalid add: "+err.Error(), http.StatusBadRequest)
		return
	}
	remove, err := catalog.ComponentsFromRecord(req.Remove)
	if err != nil {
		http.Error(w, "invalid remove: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := inv.Remove(remove); err != nil {
		http.Error(w, err.Error(), errorStatus(err))
		return
	}
	inv.Add(add)
	s.persistInventory(r.Context(), inv)
	s.logger.Debugf("Inventory updated: actor_id=%s add=%s remove=%s", inv.ActorID(), add, remove)

	writeJSON(w, http.StatusOK, newInventoryView(inv))
}

// POST /actors/{actorID}/select
// Body: { "required": {...} }
func (s *Server) handleActorSelect(w http.ResponseWriter, r *http.Request, inv *fabricate.Inventory) {
	defer r.Body.Close()

	var req selectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := req.Required.Validate(); err != nil {
		http.Error(w, "invalid required essences: "+err.Error(), http.StatusBadRequest)
		return
	}
	required, err := inv.Catalog().EssencesFromRecord(req.Required)
	if err != nil {
		http.Error(w, "invalid required essences: "+err.Error(), http.StatusBadRequest)
		return
	}

	start := time.Now()
	sel := inv.Select(required)
	s.metrics.ObserveSelection(sel, time.Since(start))

	writeJSON(w, http.StatusOK, newSelectionView(sel))
}

// handleRecipeRoutes handles {recipeID}/check and {recipeID}/craft.
func (s *Server) handleRecipeRoutes(w http.ResponseWriter, r *http.Request, inv *fabricate.Inventory, rest string) {
	idx := strings.LastIndex(rest, "/")
	if idx <= 0 {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	recipeID, action := fabricate.RecipeID(rest[:idx]), rest[idx+1:]

	switch {
	case action == "check" && r.Method == http.MethodGet:
		s.handleCheck(w, inv, recipeID)
	case action == "craft" && r.Method == http.MethodPost:
		s.handleCraft(w, r, inv, recipeID)
	default:
		http.Error(w, "not found", http.StatusNotFound)
	}
}

// GET /actors/{actorID}/recipes/{recipeID}/check
func (s *Server) handleCheck(w http.ResponseWriter, inv *fabricate.Inventory, recipeID fabricate.RecipeID) {
	checks, err := inv.Check(recipeID)
	if err != nil {
		http.Error(w, err.Error(), errorStatus(err))
		return
	}

	views := make([]checkView, len(checks))
	for i, c := range checks {
		views[i] = newCheckView(c)
	}
	best, craftable := fabricate.BestOption(checks)
	writeJSON(w, http.StatusOK, map[string]any{
		"recipe":      recipeID,
		"craftable":   craftable,
		"best_option": best.Option,
		"options":     views,
	})
}

// POST /actors/{actorID}/recipes/{recipeID}/craft
func (s *Server) handleCraft(w http.ResponseWriter, r *http.Request, inv *fabricate.Inventory, recipeID fabricate.RecipeID) {
	check, err := inv.Craft(recipeID)
	if err != nil {
		status := errorStatus(err)
		if errors.Is(err, fabricate.ErrNotCraftable) {
			s.metrics.ObserveCraft(recipeID, "not_craftable")
			writeJSON(w, status, map[string]any{"error": err.Error(), "check": newCheckView(check)})
			return
		}
		s.metrics.ObserveCraft(recipeID, "error")
		http.Error(w, err.Error(), status)
		return
	}
	s.metrics.ObserveCraft(recipeID, "crafted")
	s.persistInventory(r.Context(), inv)

	writeJSON(w, http.StatusOK, map[string]any{
		"check":     newCheckView(check),
		"inventory": newInventoryView(inv),
	})
}

// POST /actors/{actorID}/salvage/{componentID}
func (s *Server) handleSalvage(w http.ResponseWriter, r *http.Request, inv *fabricate.Inventory, componentID fabricate.ComponentID) {
	if componentID == "" {
		http.Error(w, "component ID is required in path: /actors/{actorID}/salvage/{componentID}", http.StatusBadRequest)
		return
	}
	produced, err := inv.Salvage(componentID)
	if err != nil {
		http.Error(w, err.Error(), errorStatus(err))
		return
	}
	s.metrics.ObserveSalvage()
	s.persistInventory(r.Context(), inv)

	writeJSON(w, http.StatusOK, map[string]any{
		"produced":  produced.ToRecord(),
		"inventory": newInventoryView(inv),
	})
}

// GET /notifiers lists notifiers; POST /notifiers registers one;
// DELETE /notifiers/{id} unregisters one.
func (s *Server) handleNotifiersRoutes(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/notifiers" && r.Method == http.MethodGet:
		s.handleListNotifiers(w, r)
	case r.URL.Path == "/notifiers" && r.Method == http.MethodPost:
		s.handleRegisterNotifier(w, r)
	case strings.HasPrefix(r.URL.Path, "/notifiers/") && r.Method == http.MethodDelete:
		s.handleUnregisterNotifier(w, r)
	default:
		http.Error(w, "not found", http.StatusNotFound)
	}
}

func (s *Server) handleListNotifiers(w http.ResponseWriter, _ *http.Request) {
	notifierIDs := s.notifications.ListNotifiers()

	list := make([]map[string]string, 0, len(notifierIDs))
	for _, id := range notifierIDs {
		notifier, exists := s.notifications.GetNotifier(id)
		if !exists {
			continue
		}
		entry := map[string]string{"id": id, "type": notifier.Type()}
		if wh, ok := notifier.(*notifiers.WebhookNotifier); ok {
			entry["url"] = wh.URL()
			if kinds := wh.Kinds(); len(kinds) > 0 {
				names := make([]string, len(kinds))
				for i, k := range kinds {
					names[i] = string(k)
				}
				entry["kinds"] = strings.Join(names, ",")
			}
		}
		list = append(list, entry)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"notifiers": list,
		"stats":     s.notifications.Stats(),
	})
}

// Body: { "type": "webhook", "id": "my-webhook", "config": { "url": "http://..." } }
type registerNotifierRequest struct {
	Type   string         `json:"type"`
	ID     string         `json:"id"`
	Config map[string]any `json:"config"`
}

func (s *Server) handleRegisterNotifier(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req registerNotifierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.ID == "" {
		http.Error(w, "notifier ID is required", http.StatusBadRequest)
		return
	}

	var notifier fabricate.Notifier
	switch req.Type {
	case "webhook":
		url, ok := req.Config["url"].(string)
		if !ok || url == "" {
			http.Error(w, "webhook URL is required", http.StatusBadRequest)
			return
		}
		opts, err := webhookOptions(req.Config)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		notifier = notifiers.NewWebhookNotifier(req.ID, url, opts...)
	case "websocket":
		notifier = notifiers.NewWebSocketNotifier(req.ID)
	default:
		http.Error(w, "unknown notifier type: "+req.Type, http.StatusBadRequest)
		return
	}

	if err := s.notifications.RegisterNotifier(notifier); err != nil {
		_ = notifier.Close()
		status := http.StatusBadRequest
		if errors.Is(err, fabricate.ErrNotifierExists) {
			status = http.StatusConflict
		}
		http.Error(w, "cannot register notifier: "+err.Error(), status)
		return
	}
	s.logger.Infof("Notifier registered: id=%s type=%s", req.ID, req.Type)

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("notifier registered"))
}

// webhookOptions reads the optional "headers", "secret" and "kinds" keys of
// a webhook config.
func webhookOptions(config map[string]any) ([]notifiers.WebhookOption, error) {
	var opts []notifiers.WebhookOption
	if headers, ok := config["headers"].(map[string]any); ok {
		for k, v := range headers {
			if vStr, ok := v.(string); ok {
				opts = append(opts, notifiers.WithHeader(k, vStr))
			}
		}
	}
	if secret, ok := config["secret"].(string); ok && secret != "" {
		opts = append(opts, notifiers.WithSecret(secret))
	}
	if raw, ok := config["kinds"]; ok {
		list, ok := raw.([]any)
		if !ok {
			return nil, errors.New("webhook kinds must be a list")
		}
		for _, k := range list {
			name, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("unknown event kind: %v", k)
			}
			kind, err := notifiers.ParseEventKind(name)
			if err != nil {
				return nil, err
			}
			opts = append(opts, notifiers.WithKinds(kind))
		}
	}
	return opts, nil
}

func (s *Server) handleUnregisterNotifier(w http.ResponseWriter, r *http.Request) {
	notifierID := strings.TrimPrefix(r.URL.Path, "/notifiers/")
	if notifierID == "" {
		http.Error(w, "notifier ID is required", http.StatusBadRequest)
		return
	}

	if err := s.notifications.UnregisterNotifier(notifierID); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("notifier unregistered"))
}

// GET /ws/{notifierID}
// Upgrades to a websocket subscribed to a registered websocket notifier.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	notifierID := strings.TrimPrefix(r.URL.Path, "/ws/")
	if notifierID == "" {
		http.Error(w, "notifier ID is required in path: /ws/{notifierID}", http.StatusBadRequest)
		return
	}
	notifier, exists := s.notifications.GetNotifier(notifierID)
	if !exists {
		http.Error(w, "notifier not found", http.StatusNotFound)
		return
	}
	ws, ok := notifier.(*notifiers.WebSocketNotifier)
	if !ok {
		http.Error(w, "notifier "+notifierID+" is not a websocket notifier", http.StatusBadRequest)
		return
	}
	ws.ServeHTTP(w, r)
}

// POST /actors/{actorID}/snapshot
// Triggers a synchronous snapshot save
func (s *Server) handleSaveSnapshot(w http.ResponseWriter, r *http.Request, inv *fabricate.Inventory) {
	if s.snapshots == nil {
		http.Error(w, "snapshot store not configured", http.StatusInternalServerError)
		return
	}

	snapshot := inv.Snapshot()
	if err := s.snapshots.Save(r.Context(), snapshot); err != nil {
		s.logger.Errorf("Failed to save snapshot: actor_id=%s error=%v", inv.ActorID(), err)
		http.Error(w, "failed to save snapshot: "+err.Error(), http.StatusInternalServerError)
		return
	}
	s.logger.Debugf("Snapshot saved: actor_id=%s", inv.ActorID())

	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"actor_id": snapshot.ActorID,
		"taken_at": snapshot.TakenAt,
	})
}

// GET /actors/{actorID}/snapshot
// Returns the stored snapshot if it exists
func (s *Server) handleGetSnapshot(w http.ResponseWriter, r *http.Request, inv *fabricate.Inventory) {
	if s.snapshots == nil {
		http.Error(w, "snapshot store not configured", http.StatusInternalServerError)
		return
	}

	snapshot, err := s.snapshots.Load(r.Context(), inv.ActorID())
	if err != nil {
		if errors.Is(err, fabricate.ErrSnapshotNotFound) {
			http.Error(w, "snapshot not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to read snapshot: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

// POST /actors/{actorID}/restore
// Replaces the inventory with its stored snapshot
func (s *Server) handleRestoreSnapshot(w http.ResponseWriter, r *http.Request, inv *fabricate.Inventory) {
	if s.snapshots == nil {
		http.Error(w, "snapshot store not configured", http.StatusInternalServerError)
		return
	}

	snapshot, err := s.snapshots.Load(r.Context(), inv.ActorID())
	if err != nil {
		if errors.Is(err, fabricate.ErrSnapshotNotFound) {
			http.Error(w, "snapshot not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to read snapshot: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if err := inv.Restore(snapshot); err != nil {
		http.Error(w, "cannot restore snapshot: "+err.Error(), http.StatusConflict)
		return
	}
	s.persistInventory(r.Context(), inv)
	s.logger.Infof("Snapshot restored: actor_id=%s taken_at=%s", inv.ActorID(), snapshot.TakenAt.Format(time.RFC3339))

	writeJSON(w, http.StatusOK, newInventoryView(inv))
}
