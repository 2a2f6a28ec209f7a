// Package docs registers the OpenAPI document served by the dev-mode
// swagger UI. Regenerate with `swag init -g cmd/holostream/main.go`.
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
        "/metrics": {
            "get": {
                "description": "Current store in the Prometheus text exposition format",
                "produces": ["text/plain"],
                "tags": ["metrics"],
                "summary": "Scrape metrics",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "string"}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "string"}}
                }
            },
            "post": {
                "description": "Apply a batch of gauge and counter observations. The batch is rejected as a whole when any entry is invalid.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["metrics"],
                "summary": "Push metrics",
                "parameters": [
                    {
                        "description": "Metrics batch",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/application.IngestRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/application.SuccessResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/application.ErrorResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "description": "Liveness report. 503 while starting up or when the heap is nearly exhausted.",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/application.HealthResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/application.HealthResponse"}}
                }
            }
        },
        "/v1/metrics": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "description": "Every metric in the store, in first-write order",
                "produces": ["application/json"],
                "tags": ["metrics"],
                "summary": "List live metrics",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"type": "array", "items": {"$ref": "#/definitions/application.MetricResponse"}}
                    }
                }
            }
        },
        "/v1/metrics/history": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "description": "Get a list of archived samples with optional filtering",
                "produces": ["application/json"],
                "tags": ["metrics"],
                "summary": "List archived metrics samples",
                "parameters": [
                    {"type": "string", "description": "Start time (RFC3339)", "name": "from", "in": "query"},
                    {"type": "string", "description": "End time (RFC3339)", "name": "to", "in": "query"},
                    {"type": "string", "description": "Filter by metric name", "name": "name", "in": "query"},
                    {"type": "string", "description": "Filter by metric type", "name": "type", "in": "query"},
                    {"type": "integer", "description": "Limit results", "name": "limit", "in": "query"},
                    {"type": "integer", "description": "Offset results", "name": "offset", "in": "query"}
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"type": "array", "items": {"$ref": "#/definitions/application.MetricsSampleResponse"}}
                    },
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/application.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/application.ErrorResponse"}}
                }
            }
        },
        "/v1/prometheus/config": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["prometheus"],
                "summary": "Get collector configuration",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/application.CollectorConfigResponse"}}
                }
            },
            "put": {
                "security": [{"ApiKeyAuth": []}],
                "description": "Merge a partial collector configuration and restart pushing when needed",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["prometheus"],
                "summary": "Update collector configuration",
                "parameters": [
                    {
                        "description": "Partial configuration",
                        "name": "config",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/application.CollectorConfigUpdate"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/application.CollectorConfigResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/application.ErrorResponse"}}
                }
            }
        },
        "/v1/prometheus/status": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["prometheus"],
                "summary": "Collector status",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/application.StatusResponse"}}
                }
            }
        },
        "/v1/ws": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "description": "WebSocket sending the connection status and all metrics on every tick",
                "tags": ["metrics"],
                "summary": "Live metrics feed",
                "responses": {}
            }
        }
    },
    "definitions": {
        "application.CollectorConfigResponse": {
            "type": "object",
            "properties": {
                "enabled": {"type": "boolean"},
                "endpoint": {"type": "string"},
                "protocol": {"type": "string"},
                "port": {"type": "integer"},
                "pushgateway": {"type": "string"},
                "job_name": {"type": "string"},
                "instance": {"type": "string"},
                "scrape_interval": {"type": "number"},
                "timeout": {"type": "integer"},
                "retries": {"type": "integer"},
                "retry_backoff": {"type": "integer"},
                "status": {"type": "string"}
            }
        },
        "application.CollectorConfigUpdate": {
            "type": "object",
            "properties": {
                "enabled": {"type": "boolean"},
                "endpoint": {"type": "string"},
                "protocol": {"type": "string"},
                "port": {"type": "integer"},
                "pushgateway": {"type": "string"},
                "job_name": {"type": "string"},
                "instance": {"type": "string"},
                "scrape_interval": {"type": "number"},
                "timeout": {"type": "integer"},
                "retries": {"type": "integer"},
                "retry_backoff": {"type": "integer"}
            }
        },
        "application.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "problems": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "application.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "timestamp": {"type": "string"},
                "version": {"type": "string"},
                "environment": {"type": "string"},
                "uptime": {"type": "number"},
                "memory": {
                    "type": "object",
                    "properties": {
                        "used": {"type": "integer"},
                        "total": {"type": "integer"},
                        "rss": {"type": "integer"}
                    }
                },
                "services": {"type": "object"},
                "configuration": {"type": "object"}
            }
        },
        "application.IngestMetric": {
            "type": "object",
            "properties": {
                "type": {"type": "string"},
                "name": {"type": "string"},
                "value": {"type": "number"},
                "labels": {"type": "object", "additionalProperties": {"type": "string"}},
                "help": {"type": "string"}
            }
        },
        "application.IngestRequest": {
            "type": "object",
            "properties": {
                "metrics": {"type": "array", "items": {"$ref": "#/definitions/application.IngestMetric"}}
            }
        },
        "application.MetricResponse": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "type": {"type": "string"},
                "value": {"type": "number"},
                "labels": {"type": "object", "additionalProperties": {"type": "string"}},
                "help": {"type": "string"},
                "last_updated": {"type": "string"}
            }
        },
        "application.MetricsSampleResponse": {
            "type": "object",
            "properties": {
                "timestamp": {"type": "string"},
                "type": {"type": "string"},
                "name": {"type": "string"},
                "value": {"type": "number"},
                "labels": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "application.StatusResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "enabled": {"type": "boolean"},
                "metrics": {"type": "integer"}
            }
        },
        "application.SuccessResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"}
            }
        }
    },
    "securityDefinitions": {
        "ApiKeyAuth": {
            "description": "API Key authentication",
            "type": "apiKey",
            "name": "X-API-Key",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Holostream Metrics API",
	Description:      "Prometheus-compatible metrics engine for the holo-bot livestream.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
