// Package docs holds the generated OpenAPI document for the Swagger UI.
// Regenerate with `swag init -g cmd/api/main.go` after changing handler
// annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support",
            "email": "soporte@solemia.mx"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["auth"],
                "summary": "Get the authenticated user",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/clients": {
            "get": {
                "security": [{"BearerAuth": []}, {"ApiKeyAuth": []}],
                "tags": ["clients"],
                "summary": "List the client directory",
                "parameters": [
                    {"type": "string", "name": "search", "in": "query"},
                    {"type": "string", "name": "segment", "in": "query"},
                    {"type": "string", "name": "staff", "in": "query"},
                    {"type": "string", "name": "category", "in": "query"},
                    {"type": "string", "name": "sortBy", "in": "query"},
                    {"type": "string", "name": "order", "in": "query"},
                    {"type": "string", "name": "dateStart", "in": "query"},
                    {"type": "string", "name": "dateEnd", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            },
            "post": {
                "security": [{"BearerAuth": []}, {"ApiKeyAuth": []}],
                "tags": ["clients"],
                "summary": "Create a client",
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}
            }
        },
        "/clients/export": {
            "get": {
                "security": [{"BearerAuth": []}, {"ApiKeyAuth": []}],
                "tags": ["clients"],
                "summary": "Export the client directory as CSV",
                "produces": ["text/csv"],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/clients/{id}": {
            "get": {
                "security": [{"BearerAuth": []}, {"ApiKeyAuth": []}],
                "tags": ["clients"],
                "summary": "Get a client profile",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            },
            "put": {
                "security": [{"BearerAuth": []}, {"ApiKeyAuth": []}],
                "tags": ["clients"],
                "summary": "Update a client",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}, "409": {"description": "Conflict"}}
            },
            "delete": {
                "security": [{"BearerAuth": []}, {"ApiKeyAuth": []}],
                "tags": ["clients"],
                "summary": "Delete a client",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}, "404": {"description": "Not Found"}}
            }
        },
        "/clients/{id}/attachments": {
            "get": {
                "security": [{"BearerAuth": []}, {"ApiKeyAuth": []}],
                "tags": ["attachments"],
                "summary": "List a client's attachments",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            },
            "post": {
                "security": [{"BearerAuth": []}, {"ApiKeyAuth": []}],
                "tags": ["attachments"],
                "summary": "Upload an attachment for a client",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "file", "name": "file", "in": "formData", "required": true}
                ],
                "responses": {"201": {"description": "Created"}, "413": {"description": "Request Entity Too Large"}}
            }
        },
        "/attachments/{id}/download": {
            "get": {
                "security": [{"BearerAuth": []}, {"ApiKeyAuth": []}],
                "tags": ["attachments"],
                "summary": "Download an attachment",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/visits": {
            "get": {
                "security": [{"BearerAuth": []}, {"ApiKeyAuth": []}],
                "tags": ["visits"],
                "summary": "List visits",
                "parameters": [
                    {"type": "string", "name": "clientName", "in": "query"},
                    {"type": "string", "name": "dateStart", "in": "query"},
                    {"type": "string", "name": "dateEnd", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "security": [{"BearerAuth": []}, {"ApiKeyAuth": []}],
                "tags": ["visits"],
                "summary": "Record a visit",
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}
            }
        },
        "/segments": {
            "get": {
                "security": [{"BearerAuth": []}, {"ApiKeyAuth": []}],
                "tags": ["segments"],
                "summary": "List segments",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "security": [{"BearerAuth": []}, {"ApiKeyAuth": []}],
                "tags": ["segments"],
                "summary": "Create a segment",
                "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}
            }
        },
        "/statistics/kpis": {
            "get": {
                "security": [{"BearerAuth": []}, {"ApiKeyAuth": []}],
                "tags": ["statistics"],
                "summary": "Period KPIs with comparison deltas",
                "parameters": [
                    {"type": "string", "name": "period", "in": "query"},
                    {"type": "string", "name": "compare", "in": "query"},
                    {"type": "string", "name": "staff", "in": "query"},
                    {"type": "string", "name": "category", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/statistics/revenue": {
            "get": {
                "security": [{"BearerAuth": []}, {"ApiKeyAuth": []}],
                "tags": ["statistics"],
                "summary": "Revenue time series for the selected period",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/statistics/staff": {
            "get": {
                "security": [{"BearerAuth": []}, {"ApiKeyAuth": []}],
                "tags": ["statistics"],
                "summary": "Per-staff performance breakdown",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/statistics/sales-profile": {
            "get": {
                "security": [{"BearerAuth": []}, {"ApiKeyAuth": []}],
                "tags": ["statistics"],
                "summary": "Sales profile pie with drill-down",
                "parameters": [{"type": "string", "name": "view", "in": "query"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/tenants": {
            "get": {
                "security": [{"BearerAuth": []}, {"ApiKeyAuth": []}],
                "tags": ["tenants"],
                "summary": "List studios",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/audit": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["audit"],
                "summary": "List audit log entries",
                "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}
            }
        }
    },
    "securityDefinitions": {
        "ApiKeyAuth": {
            "type": "apiKey",
            "name": "x-api-key",
            "in": "header"
        },
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Solemia Studio API",
	Description:      "Client directory, segmentation and statistics API for the Solemia studios",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
