package api

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
        "/api/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/api/grievances/": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["grievances"],
                "summary": "List grievances",
                "parameters": [
                    {"type": "string", "description": "State code", "name": "state", "in": "query"},
                    {"type": "string", "description": "Organization code", "name": "org_code", "in": "query"},
                    {"type": "string", "description": "Gender (M/F)", "name": "sex", "in": "query"},
                    {"type": "integer", "description": "Category V7 number", "name": "CategoryV7", "in": "query"},
                    {"type": "string", "description": "District name", "name": "dist_name", "in": "query"},
                    {"type": "string", "description": "Pincode", "name": "pincode", "in": "query"},
                    {"type": "string", "description": "V7 target (Yes/No)", "name": "v7_target", "in": "query"},
                    {"type": "string", "description": "DiaryDate lower bound (YYYY-MM-DD)", "name": "diary_date_from", "in": "query"},
                    {"type": "string", "description": "DiaryDate upper bound (YYYY-MM-DD)", "name": "diary_date_to", "in": "query"},
                    {"type": "string", "description": "Received date lower bound", "name": "recvd_date_from", "in": "query"},
                    {"type": "string", "description": "Received date upper bound", "name": "recvd_date_to", "in": "query"},
                    {"type": "string", "description": "Closing date lower bound", "name": "closing_date_from", "in": "query"},
                    {"type": "string", "description": "Closing date upper bound", "name": "closing_date_to", "in": "query"},
                    {"type": "integer", "description": "Number of records to return (max 1000)", "name": "limit", "in": "query"},
                    {"type": "integer", "description": "Number of records to skip", "name": "offset", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/api/grievances/filter": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["grievances"],
                "summary": "Filter grievances",
                "parameters": [
                    {"description": "Filter spec", "name": "filters", "in": "body", "required": true, "schema": {"type": "object", "additionalProperties": true}},
                    {"type": "integer", "description": "Number of records to return (max 1000)", "name": "limit", "in": "query"},
                    {"type": "integer", "description": "Number of records to skip", "name": "offset", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/api/grievances/by-id": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["grievances"],
                "summary": "Get a grievance by id",
                "parameters": [
                    {"description": "Grievance id", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/api.ByIDRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/api/grievances/unique-values/{field}": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["aggregations"],
                "summary": "Unique values of a field",
                "parameters": [
                    {"type": "string", "description": "Field name", "name": "field", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/api/grievances/statistics/{field}": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["aggregations"],
                "summary": "Value distribution of a field",
                "parameters": [
                    {"type": "string", "description": "Field name", "name": "field", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/api/grievances/schema": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["info"],
                "summary": "Record schema",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        }
    },
    "definitions": {
        "api.APIResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {},
                "error": {"type": "string"},
                "details": {"type": "object", "additionalProperties": true}
            }
        },
        "api.ByIDRequest": {
            "type": "object",
            "properties": {
                "grievance_id": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "ApiKeyAuth": {"type": "apiKey", "name": "X-API-Key", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:8000",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "cpgrams grievance API",
	Description:      "Query, filter and aggregate public grievance records.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
