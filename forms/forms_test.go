package forms_test

import (
	"net/http"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openwidget/widgetkit/core"
	"github.com/openwidget/widgetkit/core/backend"
	"github.com/openwidget/widgetkit/core/client"
	"github.com/openwidget/widgetkit/core/widget"
	"github.com/openwidget/widgetkit/forms"
)

func clientsForm() forms.Definition {
	return forms.Definition{
		Name:           "client_form",
		Title:          "Clients",
		Description:    "Manage client records",
		SubmitEndpoint: "client_form_submit",
		ListEndpoint:   "all_clients",
		Inputs: []widget.Param{
			{Name: "first_name", Type: core.ParamTypeText, Label: "First Name"},
			{Name: "last_name", Type: core.ParamTypeText, Label: "Last Name"},
			{Name: "risk_profile", Type: core.ParamTypeText, Label: "Risk Profile"},
			{Name: "investment_types", Type: core.ParamTypeEndpoint, Label: "Investment Types",
				MultiSelect: true, OptionsEndpoint: "/investment_types"},
			{Name: "add_record", Type: core.ParamTypeButton, Label: "Add Client"},
			{Name: "update_record", Type: core.ParamTypeButton, Label: "Update Client"},
		},
		RequiredFields: []string{"first_name", "last_name"},
		KeyFields:      []string{"first_name", "last_name"},
	}
}

func newFormBackend(t *testing.T) client.Client {
	t.Helper()
	router := mux.NewRouter()
	b := backend.New(&backend.Builder{Router: router, Name: "Form Test Backend"})
	forms.MustNewService(clientsForm(), forms.NewMemoryStore()).MustAttach(b)
	return client.NewWithRouter(router)
}

func TestAddAndList(t *testing.T) {
	cl := newFormBackend(t)

	result := map[string]bool{}
	_, err := cl.RawPost("/client_form_submit", map[string]interface{}{
		"first_name":       "Ada",
		"last_name":        "Lovelace",
		"risk_profile":     "Aggressive",
		"investment_types": []string{"stocks", "bonds"},
		"add_record":       true,
	}, &result)
	require.NoError(t, err)
	assert.True(t, result["success"])

	var records []map[string]string
	_, err = cl.RawGet("/all_clients", &records)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Ada", records[0]["first_name"])
	assert.Equal(t, "stocks,bonds", records[0]["investment_types"])
	assert.NotEmpty(t, records[0]["record_id"])
	assert.NotEmpty(t, records[0]["submitted_at"])
}

func TestAddRequiredFields(t *testing.T) {
	cl := newFormBackend(t)

	status, err := cl.RawPost("/client_form_submit", map[string]interface{}{
		"first_name": "Ada",
		"add_record": true,
	}, nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, err.Error(), "last_name is required")
}

func TestAddUnknownField(t *testing.T) {
	cl := newFormBackend(t)

	// fields the definition does not know are stored as given
	_, err := cl.RawPost("/client_form_submit", map[string]interface{}{
		"first_name": "Ada",
		"last_name":  "Lovelace",
		"shoe_size":  42,
		"add_record": true,
	}, nil)
	require.NoError(t, err)

	var records []map[string]string
	_, err = cl.RawGet("/all_clients", &records)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "42", records[0]["shoe_size"])
}

func TestSubmitWrongValueType(t *testing.T) {
	cl := newFormBackend(t)

	status, err := cl.RawPost("/client_form_submit", map[string]interface{}{
		"first_name": []string{"not", "a", "string"},
		"last_name":  "Lovelace",
		"add_record": true,
	}, nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestSubmitNoButton(t *testing.T) {
	cl := newFormBackend(t)

	// a submission without a pressed button validates but stores nothing
	result := map[string]bool{}
	_, err := cl.RawPost("/client_form_submit", map[string]interface{}{
		"first_name": "Ada",
		"last_name":  "Lovelace",
	}, &result)
	require.NoError(t, err)
	assert.True(t, result["success"])

	var records []map[string]interface{}
	_, err = cl.RawGet("/all_clients", &records)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Nil(t, records[0]["first_name"])
}

func TestListPlaceholder(t *testing.T) {
	cl := newFormBackend(t)

	var records []map[string]interface{}
	_, err := cl.RawGet("/all_clients", &records)
	require.NoError(t, err)
	require.Len(t, records, 1)

	// an empty form serves one all-null record so the table renders its columns
	for _, name := range []string{"first_name", "last_name", "risk_profile", "investment_types"} {
		value, ok := records[0][name]
		assert.True(t, ok, name)
		assert.Nil(t, value, name)
	}
}

func TestUpdate(t *testing.T) {
	cl := newFormBackend(t)

	_, err := cl.RawPost("/client_form_submit", map[string]interface{}{
		"first_name":   "Ada",
		"last_name":    "Lovelace",
		"risk_profile": "Conservative",
		"add_record":   true,
	}, nil)
	require.NoError(t, err)

	result := map[string]bool{}
	_, err = cl.RawPost("/client_form_submit", map[string]interface{}{
		"first_name":    "Ada",
		"last_name":     "Lovelace",
		"risk_profile":  "Aggressive",
		"update_record": true,
	}, &result)
	require.NoError(t, err)
	assert.True(t, result["success"])

	var records []map[string]string
	_, err = cl.RawGet("/all_clients", &records)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Aggressive", records[0]["risk_profile"])
}

func TestUpdateNoMatch(t *testing.T) {
	cl := newFormBackend(t)

	_, err := cl.RawPost("/client_form_submit", map[string]interface{}{
		"first_name":   "Ada",
		"last_name":    "Lovelace",
		"risk_profile": "Conservative",
		"add_record":   true,
	}, nil)
	require.NoError(t, err)

	// an update that matches nothing changes nothing and still succeeds
	result := map[string]bool{}
	_, err = cl.RawPost("/client_form_submit", map[string]interface{}{
		"first_name":    "Grace",
		"last_name":     "Hopper",
		"risk_profile":  "Aggressive",
		"update_record": true,
	}, &result)
	require.NoError(t, err)
	assert.True(t, result["success"])

	var records []map[string]string
	_, err = cl.RawGet("/all_clients", &records)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Conservative", records[0]["risk_profile"])
}

func TestUpdateMissingKeyField(t *testing.T) {
	cl := newFormBackend(t)

	status, err := cl.RawPost("/client_form_submit", map[string]interface{}{
		"first_name":    "Ada",
		"risk_profile":  "Aggressive",
		"update_record": true,
	}, nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, err.Error(), "last_name is required")
}

func TestClear(t *testing.T) {
	cl := newFormBackend(t)

	_, err := cl.RawPost("/client_form_submit", map[string]interface{}{
		"first_name": "Ada",
		"last_name":  "Lovelace",
		"add_record": true,
	}, nil)
	require.NoError(t, err)

	status, err := cl.RawDelete("/all_clients")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, status)

	var records []map[string]interface{}
	_, err = cl.RawGet("/all_clients", &records)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Nil(t, records[0]["first_name"])
}

func TestWidgetConfig(t *testing.T) {
	cl := newFormBackend(t)

	widgets := map[string]widget.Config{}
	_, err := cl.RawGet("/widgets.json", &widgets)
	require.NoError(t, err)

	cfg, ok := widgets["all_clients"]
	require.True(t, ok)
	assert.Equal(t, core.WidgetTypeTable, cfg.Type)
	require.Len(t, cfg.Params, 1)
	form := cfg.Params[0]
	assert.Equal(t, core.ParamTypeForm, form.Type)
	assert.Equal(t, "client_form_submit", form.Endpoint)
	assert.Len(t, form.InputParams, 6)
}

func TestDefinitionValidation(t *testing.T) {
	def := clientsForm()
	def.RequiredFields = []string{"no_such_field"}
	_, err := forms.NewService(def, forms.NewMemoryStore())
	assert.Error(t, err)

	def = clientsForm()
	def.SubmitEndpoint = ""
	_, err = forms.NewService(def, forms.NewMemoryStore())
	assert.Error(t, err)

	def = clientsForm()
	def.Inputs = nil
	_, err = forms.NewService(def, forms.NewMemoryStore())
	assert.Error(t, err)
}
