package forms

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/google/uuid"

	"github.com/openwidget/widgetkit/core"
	"github.com/openwidget/widgetkit/core/backend"
	"github.com/openwidget/widgetkit/core/logger"
)

// Service serves one form widget: the table widget with its records at
// the list endpoint and the submission handler at the submit endpoint.
type Service struct {
	def   Definition
	store Store
}

// NewService validates the definition and creates the service
func NewService(def Definition, store Store) (*Service, error) {
	if err := def.validate(); err != nil {
		return nil, err
	}
	return &Service{def: def, store: store}, nil
}

// MustNewService is like NewService but panics on error
func MustNewService(def Definition, store Store) *Service {
	service, err := NewService(def, store)
	if err != nil {
		panic(err)
	}
	return service
}

// Definition returns the form definition of this service
func (s *Service) Definition() Definition {
	return s.def
}

// Attach registers the form widget with the backend and mounts the
// submit handler. The list endpoint also accepts DELETE to clear all
// records of the form.
func (s *Service) Attach(b *backend.Backend) error {
	if err := b.Register(s.def.WidgetConfig(), s.list); err != nil {
		return err
	}
	b.Router().HandleFunc(core.RoutePath(s.def.SubmitEndpoint), s.submit).Methods(http.MethodPost)
	b.Router().HandleFunc(core.RoutePath(s.def.ListEndpoint), s.clear).Methods(http.MethodDelete)
	return nil
}

// MustAttach is like Attach but panics on error
func (s *Service) MustAttach(b *backend.Backend) {
	if err := s.Attach(b); err != nil {
		panic(err)
	}
}

func (s *Service) submit(w http.ResponseWriter, r *http.Request) {
	rlog := logger.FromContext(r.Context())

	payload := map[string]interface{}{}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		backend.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if err := s.def.ValidatePayload(payload); err != nil {
		backend.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	if truthy(payload[s.def.UpdateButton]) {
		s.update(w, r, payload)
		return
	}
	if !truthy(payload[s.def.AddButton]) {
		// no button pressed, nothing to do beyond validation
		WriteSuccess(w, r)
		return
	}

	record := s.def.normalize(payload)
	for _, name := range s.def.RequiredFields {
		if record[name] == "" {
			backend.Errorf(w, http.StatusBadRequest, "%s is required", name)
			return
		}
	}
	record[FieldRecordID] = uuid.New().String()
	record[FieldSubmittedAt] = time.Now().UTC().Format(time.RFC3339)

	if err := s.store.Add(r.Context(), s.def.Name, record); err != nil {
		rlog.WithError(err).Errorln("cannot store record")
		backend.Error(w, http.StatusInternalServerError, "cannot store record")
		return
	}
	WriteSuccess(w, r)
}

func (s *Service) update(w http.ResponseWriter, r *http.Request, payload map[string]interface{}) {
	rlog := logger.FromContext(r.Context())

	record := s.def.normalize(payload)
	keys := Record{}
	for _, name := range s.def.KeyFields {
		value, ok := record[name]
		if !ok || value == "" {
			backend.Errorf(w, http.StatusBadRequest, "%s is required to update a record", name)
			return
		}
		keys[name] = value
		delete(record, name)
	}
	if len(keys) == 0 {
		backend.Error(w, http.StatusBadRequest, "form has no key fields, cannot update")
		return
	}

	// a non-matching key set changes nothing and is not an error
	found, err := s.store.Update(r.Context(), s.def.Name, keys, record)
	if err != nil {
		rlog.WithError(err).Errorln("cannot update record")
		backend.Error(w, http.StatusInternalServerError, "cannot update record")
		return
	}
	if !found {
		rlog.Debugln("update matched no record")
	}
	WriteSuccess(w, r)
}

// list serves the stored records. An empty form produces a single
// placeholder record with null values, so the dashboard host still
// renders the table columns.
func (s *Service) list(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.List(r.Context(), s.def.Name)
	if err != nil {
		logger.FromContext(r.Context()).WithError(err).Errorln("cannot list records")
		backend.Error(w, http.StatusInternalServerError, "cannot list records")
		return
	}

	if len(records) == 0 {
		placeholder := map[string]interface{}{}
		for _, name := range s.def.FieldNames() {
			placeholder[name] = nil
		}
		backend.WriteJSON(w, r, []map[string]interface{}{placeholder})
		return
	}
	backend.WriteJSON(w, r, records)
}

func (s *Service) clear(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Clear(r.Context(), s.def.Name); err != nil {
		logger.FromContext(r.Context()).WithError(err).Errorln("cannot clear records")
		backend.Error(w, http.StatusInternalServerError, "cannot clear records")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// WriteSuccess writes the acknowledgment the dashboard host expects
// after a form submission
func WriteSuccess(w http.ResponseWriter, r *http.Request) {
	backend.WriteJSON(w, r, map[string]bool{"success": true})
}

func truthy(value interface{}) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		return v == "true" || v == "True"
	default:
		return false
	}
}
