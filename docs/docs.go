// Package docs registers the OpenAPI description served at /swagger.
// Regenerate with: swag init -g cmd/api/main.go
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
        "/locations": {
            "get": {
                "produces": ["application/json"],
                "tags": ["locations"],
                "summary": "List tracked locations",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Location"}}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["locations"],
                "summary": "Register a location and refresh it",
                "parameters": [
                    {"description": "Location", "name": "location", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.CreateLocationRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.RefreshResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/locations/search": {
            "get": {
                "produces": ["application/json"],
                "tags": ["locations"],
                "summary": "Search locations by keyword",
                "parameters": [
                    {"type": "string", "description": "Keyword", "name": "keyword", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Location"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/locations/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["locations"],
                "summary": "Get a location",
                "parameters": [
                    {"type": "string", "description": "Location id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Location"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["locations"],
                "summary": "Stop tracking a location",
                "parameters": [
                    {"type": "string", "description": "Location id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/locations/{id}/overview": {
            "get": {
                "produces": ["application/json"],
                "tags": ["locations"],
                "summary": "Current conditions with today and tomorrow",
                "parameters": [
                    {"type": "string", "description": "Location id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Overview"}}
                }
            }
        },
        "/weather/realtime/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["weather"],
                "summary": "Latest current conditions",
                "parameters": [
                    {"type": "string", "description": "Location id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.CurrentConditions"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/weather/daily/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["weather"],
                "summary": "Upcoming daily forecast",
                "parameters": [
                    {"type": "string", "description": "Location id", "name": "id", "in": "path", "required": true},
                    {"type": "integer", "default": 7, "description": "Number of days (1-30)", "name": "days", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.DailyForecast"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/weather/hourly/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["weather"],
                "summary": "Upcoming hourly forecast",
                "parameters": [
                    {"type": "string", "description": "Location id", "name": "id", "in": "path", "required": true},
                    {"type": "integer", "default": 24, "description": "Number of hours (1-168)", "name": "hours", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.HourlyForecast"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/weather/update/{id}": {
            "post": {
                "produces": ["application/json"],
                "tags": ["weather"],
                "summary": "Refresh one location now",
                "parameters": [
                    {"type": "string", "description": "Location id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.RefreshResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/weather/update-all": {
            "post": {
                "produces": ["application/json"],
                "tags": ["weather"],
                "summary": "Refresh every tracked location now",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.BatchResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handler.ErrorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "handler.CreateLocationRequest": {
            "type": "object",
            "required": ["location_id", "name"],
            "properties": {
                "location_id": {"type": "string"},
                "name": {"type": "string"},
                "country": {"type": "string"},
                "province": {"type": "string"},
                "latitude": {"type": "number"},
                "longitude": {"type": "number"}
            }
        },
        "handler.RefreshResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "outcome": {"type": "object"}
            }
        },
        "handler.BatchResponse": {
            "type": "object",
            "properties": {
                "run_id": {"type": "string"},
                "used_defaults": {"type": "boolean"},
                "results": {"type": "array", "items": {"type": "object"}}
            }
        },
        "models.Location": {
            "type": "object",
            "properties": {
                "location_id": {"type": "string"},
                "name": {"type": "string"},
                "country": {"type": "string"},
                "province": {"type": "string"},
                "latitude": {"type": "number"},
                "longitude": {"type": "number"}
            }
        },
        "models.CurrentConditions": {"type": "object"},
        "models.DailyForecast": {"type": "object"},
        "models.HourlyForecast": {"type": "object"},
        "models.Overview": {"type": "object"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Weather Pipeline API",
	Description:      "Stores QWeather current conditions and forecasts for tracked locations.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
