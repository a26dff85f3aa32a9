// The forms service is the deployable variant of the forms example:
// records live in postgres and the backend is protected with a bearer
// token, either a pre-shared token or HS256-signed JWTs.
package main

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/joeshaw/envdecode"

	"github.com/openwidget/widgetkit/core"
	"github.com/openwidget/widgetkit/core/access"
	"github.com/openwidget/widgetkit/core/backend"
	"github.com/openwidget/widgetkit/core/csql"
	"github.com/openwidget/widgetkit/core/logger"
	"github.com/openwidget/widgetkit/core/widget"
	"github.com/openwidget/widgetkit/forms"
)

// Service holds the configuration for this service
//
// use POSTGRES="host=localhost port=5432 user=postgres password=docker dbname=postgres sslmode=disable"
type Service struct {
	Listen    string `env:"LISTEN,default=:3000" description:"the address to listen on"`
	Postgres  string `env:"POSTGRES,required" description:"the connection string for the Postgres DB"`
	Token     string `env:"TOKEN,default=" description:"pre-shared bearer token protecting the backend"`
	JWTSecret string `env:"JWT_SECRET,default=" description:"HS256 secret for JWT bearer tokens, overrides TOKEN"`
	LogLevel  string `env:"LOG_LEVEL,default=info" description:"log level"`
}

func (s *Service) verifier() access.Verifier {
	if s.JWTSecret != "" {
		return access.NewJWTVerifier([]byte(s.JWTSecret))
	}
	if s.Token != "" {
		return access.NewTokenVerifier(s.Token)
	}
	return nil
}

func main() {
	service := &Service{}
	if err := envdecode.Decode(service); err != nil {
		panic(err)
	}
	logger.InitLogger(service.LogLevel)

	db := csql.OpenWithSchema(service.Postgres, "forms")
	defer db.Close()

	router := mux.NewRouter()
	b := backend.New(&backend.Builder{
		Router:      router,
		Name:        "Forms Backend",
		Description: "Client records entered through a form widget",
		Auth:        service.verifier(),
		LogRequests: true,
	})

	forms.MustNewService(forms.Definition{
		Name:           "client_form",
		Title:          "Clients",
		Description:    "Add and update client records",
		Category:       "crm",
		GridData:       &widget.GridData{W: 30, H: 12},
		SubmitEndpoint: "client_form_submit",
		ListEndpoint:   "all_clients",
		Inputs: []widget.Param{
			{Name: "first_name", Label: "First Name", Type: core.ParamTypeText},
			{Name: "last_name", Label: "Last Name", Type: core.ParamTypeText},
			{Name: "risk_profile", Label: "Risk Profile", Type: core.ParamTypeText,
				Options: []widget.Option{
					{Label: "Conservative", Value: "Conservative"},
					{Label: "Balanced", Value: "Balanced"},
					{Label: "Aggressive", Value: "Aggressive"},
				}},
			{Name: "add_record", Label: "Add Client", Type: core.ParamTypeButton},
			{Name: "update_record", Label: "Update Client", Type: core.ParamTypeButton},
		},
		RequiredFields: []string{"first_name", "last_name"},
		KeyFields:      []string{"first_name", "last_name"},
	}, forms.MustNewSQLStore(db)).MustAttach(b)

	log.Println("listen on port", service.Listen)
	http.ListenAndServe(service.Listen, router)
}
