// The relay-lambda binary deploys the form relay as a standalone serverless
// function behind API Gateway, so the CRM credential never has to live in the
// main API's environment.
package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/urjavolt/solar-leads-platform/cmd/mainconfig"
	appconfig "github.com/urjavolt/solar-leads-platform/internal/config"
	"github.com/urjavolt/solar-leads-platform/internal/crm"
	"github.com/urjavolt/solar-leads-platform/internal/notify"
	"github.com/urjavolt/solar-leads-platform/internal/relay"
	"github.com/urjavolt/solar-leads-platform/pkg/logging"
)

func main() {
	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)

	// A missing CRM endpoint/key is not fatal here: the handler reports the
	// configuration fault per request instead, matching the HTTP deployment.
	var crmClient *crm.Client
	if client, err := crm.New(crm.Config{
		Endpoint: cfg.CRMAPIEndpoint,
		APIKey:   cfg.CRMAPIKey,
		Timeout:  cfg.CRMTimeout,
		Logger:   logger,
	}); err != nil {
		logger.Warn("CRM client not configured", "error", err)
	} else {
		crmClient = client
	}

	var notifier *notify.Service
	emailSender, err := mainconfig.NewEmailSender(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("failed to initialize email sender", "error", err)
	} else if emailSender != nil {
		notifier = notify.NewService(emailSender, cfg.NotifyRecipients, logger)
	}

	handler := relay.NewHandler(crmClient, notifier, nil, cfg.IsProduction(), logger)

	lambda.Start(func(ctx context.Context, evt events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
		return handle(ctx, handler, evt)
	})
}

func handle(ctx context.Context, handler *relay.Handler, evt events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	method := strings.ToUpper(strings.TrimSpace(evt.RequestContext.HTTP.Method))
	if method != http.MethodPost {
		return respond(http.StatusMethodNotAllowed, relay.Response{
			Success: false,
			Message: "Method not allowed",
		}), nil
	}

	body, err := decodeBody(evt)
	if err != nil {
		return respond(http.StatusBadRequest, relay.Response{
			Success: false,
			Message: "Invalid request body",
		}), nil
	}

	var req relay.Request
	if err := json.Unmarshal(body, &req); err != nil {
		return respond(http.StatusBadRequest, relay.Response{
			Success: false,
			Message: "Invalid request body",
		}), nil
	}

	status, resp := handler.Process(ctx, req)
	return respond(status, resp), nil
}

func decodeBody(evt events.APIGatewayV2HTTPRequest) ([]byte, error) {
	if !evt.IsBase64Encoded {
		return []byte(evt.Body), nil
	}
	return base64.StdEncoding.DecodeString(evt.Body)
}

func respond(status int, body relay.Response) events.APIGatewayV2HTTPResponse {
	raw, _ := json.Marshal(body)
	return events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Body:       string(raw),
		Headers:    map[string]string{"content-type": "application/json"},
	}
}
