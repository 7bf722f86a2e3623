// Package docs registers the OpenAPI document served under /swagger.
// Regenerate with: swag init -g cmd/api/main.go -o docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {"get": {"tags": ["health"], "summary": "Liveness probe", "responses": {"200": {"description": "OK"}}}},
        "/health/ready": {"get": {"tags": ["health"], "summary": "Readiness probe", "responses": {"200": {"description": "OK"}, "503": {"description": "Dependency down"}}}},
        "/auth/register": {"post": {"tags": ["auth"], "summary": "Register a new user", "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/registerRequest"}}], "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}}},
        "/auth/login": {"post": {"tags": ["auth"], "summary": "Login", "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/loginRequest"}}], "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/register-user": {"post": {"tags": ["auth"], "summary": "Record the caller's first login", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/me": {"get": {"tags": ["auth"], "summary": "Current user", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/admin/promote-user": {"post": {"tags": ["auth"], "summary": "Grant the admin role to a user", "security": [{"BearerAuth": []}], "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/promoteRequest"}}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}}},
        "/cadastro": {"post": {"tags": ["entregadores"], "summary": "Register the caller's courier profile", "security": [{"BearerAuth": []}], "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/registerCourierRequest"}}], "responses": {"201": {"description": "Created"}, "400": {"description": "Missing fields or duplicate cpf"}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}}}},
        "/entregadores": {"get": {"tags": ["entregadores"], "summary": "List courier profiles", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}},
        "/entregadores/{id}/aprovar": {"patch": {"tags": ["entregadores"], "summary": "Approve or reject a courier", "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}, {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/approvalRequest"}}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}}},
        "/pedidos": {
            "get": {"tags": ["pedidos"], "summary": "List orders", "security": [{"BearerAuth": []}], "parameters": [{"in": "query", "name": "status", "type": "string"}], "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}},
            "post": {"tags": ["pedidos"], "summary": "Create an order", "security": [{"BearerAuth": []}], "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/createOrderRequest"}}], "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "403": {"description": "Forbidden"}}}
        },
        "/pedidos/{id}": {
            "get": {"tags": ["pedidos"], "summary": "Get an order", "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "delete": {"tags": ["pedidos"], "summary": "Delete a pending order", "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}], "responses": {"200": {"description": "OK"}, "400": {"description": "Not pending"}, "404": {"description": "Not Found"}}}
        },
        "/pedidos/{id}/aceitar": {"post": {"tags": ["pedidos"], "summary": "Claim a pending order", "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}], "responses": {"200": {"description": "OK"}, "400": {"description": "Order already claimed"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}}},
        "/pedidos/{id}/status": {"patch": {"tags": ["pedidos"], "summary": "Change the status of an order", "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}, {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/advanceStatusRequest"}}], "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid status"}, "403": {"description": "Not the owner"}, "404": {"description": "Not Found"}}}},
        "/pedidos/{id}/eventos": {"get": {"tags": ["pedidos"], "summary": "Audit trail of an order", "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}},
        "/api/external/orders": {
            "post": {"tags": ["external"], "summary": "Receive an order from a partner storefront", "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"type": "object"}}], "responses": {"200": {"description": "Already ingested"}, "201": {"description": "Created"}, "400": {"description": "Missing customer or items"}}},
            "get": {"tags": ["external"], "summary": "List storefront orders", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}
        },
        "/api/external/orders/{external_id}": {"get": {"tags": ["external"], "summary": "Look up an ingested order by its external id", "parameters": [{"in": "path", "name": "external_id", "type": "string", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/api/upload-json": {"post": {"tags": ["external"], "summary": "Create an order from a storefront export file", "security": [{"BearerAuth": []}], "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"type": "object"}}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "403": {"description": "Forbidden"}}}},
        "/api/json-orders": {"get": {"tags": ["external"], "summary": "List orders created from uploaded files", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}}
    },
    "definitions": {
        "registerRequest": {"type": "object", "required": ["email", "password"], "properties": {"email": {"type": "string"}, "password": {"type": "string"}, "name": {"type": "string"}}},
        "loginRequest": {"type": "object", "required": ["email", "password"], "properties": {"email": {"type": "string"}, "password": {"type": "string"}}},
        "promoteRequest": {"type": "object", "required": ["email"], "properties": {"email": {"type": "string"}}},
        "createOrderRequest": {"type": "object", "required": ["description", "quantity"], "properties": {"description": {"type": "string"}, "quantity": {"type": "integer"}}},
        "advanceStatusRequest": {"type": "object", "required": ["status"], "properties": {"status": {"type": "string", "enum": ["pendente", "aceito", "em_rota", "entregue", "cancelado"]}}},
        "approvalRequest": {"type": "object", "required": ["aprovado"], "properties": {"aprovado": {"type": "boolean"}}},
        "registerCourierRequest": {"type": "object", "properties": {"nome": {"type": "string"}, "cpf": {"type": "string"}, "telefone": {"type": "string"}, "veiculo": {"type": "string"}, "endereco": {"type": "string"}, "cidade": {"type": "string"}, "estado": {"type": "string"}, "cep": {"type": "string"}, "disponibilidade": {"type": "string"}, "possuiCnh": {"type": "boolean"}, "cnh": {"type": "string"}}}
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "2.0.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Entregadores 67 Dispatch API",
	Description:      "Order dispatch between the admin panel, partner storefronts and couriers.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
