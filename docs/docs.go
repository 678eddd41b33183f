// Package docs holds the OpenAPI document served at /swagger/doc.json.
// Regenerate with: swag init -g cmd/app/main.go -o docs
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
        "/automation/process-scheduled": {
            "post": {
                "description": "Runs one batch tick over posts whose automation is due. Called by Cloud Scheduler.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["automation"],
                "summary": "Process due scheduled posts",
                "parameters": [
                    {"description": "Batch options", "name": "request", "in": "body", "schema": {"$ref": "#/definitions/dto.ProcessScheduledRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.BatchResult"}},
                    "400": {"description": "invalid request payload", "schema": {"type": "string"}},
                    "401": {"description": "unauthorized", "schema": {"type": "string"}},
                    "500": {"description": "failed to process scheduled posts", "schema": {"type": "string"}}
                }
            }
        },
        "/automation/enable/{postId}": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["automation"],
                "summary": "Enable automation for a post",
                "parameters": [
                    {"type": "string", "description": "Post ID", "name": "postId", "in": "path", "required": true},
                    {"description": "Check interval", "name": "request", "in": "body", "schema": {"$ref": "#/definitions/dto.EnableAutomationRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.PostResponseDTO"}},
                    "400": {"description": "invalid request payload", "schema": {"type": "string"}},
                    "401": {"description": "unauthorized", "schema": {"type": "string"}},
                    "403": {"description": "forbidden", "schema": {"type": "string"}},
                    "404": {"description": "post not found", "schema": {"type": "string"}}
                }
            }
        },
        "/automation/disable/{postId}": {
            "post": {
                "produces": ["application/json"],
                "tags": ["automation"],
                "summary": "Disable automation for a post",
                "parameters": [
                    {"type": "string", "description": "Post ID", "name": "postId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.PostResponseDTO"}},
                    "401": {"description": "unauthorized", "schema": {"type": "string"}},
                    "403": {"description": "forbidden", "schema": {"type": "string"}},
                    "404": {"description": "post not found", "schema": {"type": "string"}}
                }
            }
        },
        "/automation/status/{organizationId}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["automation"],
                "summary": "Automation overview for an organization",
                "parameters": [
                    {"type": "string", "description": "Organization ID", "name": "organizationId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.AutomationStatusResponseDTO"}},
                    "401": {"description": "unauthorized", "schema": {"type": "string"}},
                    "403": {"description": "forbidden", "schema": {"type": "string"}}
                }
            }
        },
        "/tools/usage/monthly": {
            "get": {
                "produces": ["application/json"],
                "tags": ["usage"],
                "summary": "Current month usage",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.MonthlyStats"}},
                    "401": {"description": "unauthorized", "schema": {"type": "string"}},
                    "429": {"description": "too many requests", "schema": {"type": "string"}},
                    "500": {"description": "failed to load usage", "schema": {"type": "string"}}
                }
            }
        },
        "/tools/usage/history": {
            "get": {
                "produces": ["application/json"],
                "tags": ["usage"],
                "summary": "Usage of recent months",
                "parameters": [
                    {"type": "integer", "description": "Number of months (default 6, max 24)", "name": "months", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.UsageHistoryResponseDTO"}},
                    "400": {"description": "invalid months", "schema": {"type": "string"}},
                    "401": {"description": "unauthorized", "schema": {"type": "string"}}
                }
            }
        },
        "/tools/usage/check": {
            "post": {
                "description": "Read only. A denial is a 200 with allowed=false.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["usage"],
                "summary": "Check whether a request fits the monthly quota",
                "parameters": [
                    {"description": "Words to check", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.QuotaCheckRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.QuotaCheck"}},
                    "400": {"description": "invalid request payload", "schema": {"type": "string"}},
                    "401": {"description": "unauthorized", "schema": {"type": "string"}}
                }
            }
        },
        "/webhooks/stripe": {
            "post": {
                "description": "Verifies the Stripe signature and syncs entitlements. Non-2xx responses make Stripe redeliver.",
                "consumes": ["application/json"],
                "produces": ["text/plain"],
                "tags": ["webhooks"],
                "summary": "Stripe webhook",
                "parameters": [
                    {"type": "string", "description": "Stripe signature", "name": "Stripe-Signature", "in": "header", "required": true}
                ],
                "responses": {
                    "200": {"description": "ok", "schema": {"type": "string"}},
                    "400": {"description": "invalid webhook", "schema": {"type": "string"}},
                    "500": {"description": "failed to process event", "schema": {"type": "string"}}
                }
            }
        }
    },
    "definitions": {
        "dto.ProcessScheduledRequest": {
            "type": "object",
            "properties": {
                "apiKey": {"type": "string"},
                "maxPosts": {"type": "integer", "maximum": 50, "minimum": 1}
            }
        },
        "dto.EnableAutomationRequest": {
            "type": "object",
            "properties": {
                "checkIntervalHours": {"type": "integer", "maximum": 168, "minimum": 1}
            }
        },
        "dto.QuotaCheckRequest": {
            "type": "object",
            "required": ["wordCount"],
            "properties": {
                "wordCount": {"type": "integer", "minimum": 1}
            }
        },
        "dto.PostResponseDTO": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "organizationId": {"type": "string"},
                "url": {"type": "string"},
                "status": {"type": "string"},
                "commentCount": {"type": "integer"},
                "autoProcess": {"type": "boolean"},
                "checkIntervalHours": {"type": "integer"},
                "nextCheckAt": {"type": "string"},
                "retryCount": {"type": "integer"},
                "lastError": {"type": "string"},
                "automationState": {"type": "string"},
                "createdAt": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "dto.AutomationStatusResponseDTO": {
            "type": "object",
            "properties": {
                "stats": {
                    "type": "object",
                    "properties": {
                        "totalPosts": {"type": "integer"},
                        "automatedPosts": {"type": "integer"},
                        "pendingPosts": {"type": "integer"},
                        "failedPosts": {"type": "integer"}
                    }
                },
                "posts": {"type": "array", "items": {"$ref": "#/definitions/dto.PostResponseDTO"}}
            }
        },
        "dto.UsageHistoryResponseDTO": {
            "type": "object",
            "properties": {
                "entries": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "month": {"type": "integer"},
                            "year": {"type": "integer"},
                            "totalWords": {"type": "integer"},
                            "humanizer": {"type": "integer"},
                            "detector": {"type": "integer"},
                            "summariser": {"type": "integer"},
                            "paraphraser": {"type": "integer"}
                        }
                    }
                }
            }
        },
        "service.BatchResult": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "processed": {"type": "integer"},
                "successCount": {"type": "integer"},
                "errorCount": {"type": "integer"},
                "skipped": {"type": "boolean"},
                "interrupted": {"type": "boolean"},
                "results": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "postId": {"type": "string"},
                            "status": {"type": "string"},
                            "url": {"type": "string"},
                            "error": {"type": "string"}
                        }
                    }
                }
            }
        },
        "service.QuotaCheck": {
            "type": "object",
            "properties": {
                "allowed": {"type": "boolean"},
                "currentUsage": {"type": "integer"},
                "wordLimit": {"type": "integer"},
                "remainingWords": {"type": "integer"},
                "message": {"type": "string"}
            }
        },
        "service.MonthlyStats": {
            "type": "object",
            "properties": {
                "currentUsage": {"type": "integer"},
                "wordLimit": {"type": "integer"},
                "remainingWords": {"type": "integer"},
                "usagePercentage": {"type": "integer"},
                "month": {"type": "integer"},
                "year": {"type": "integer"},
                "breakdown": {
                    "type": "object",
                    "properties": {
                        "humanizer": {"type": "integer"},
                        "detector": {"type": "integer"},
                        "summariser": {"type": "integer"},
                        "paraphraser": {"type": "integer"}
                    }
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/v1",
	Schemes:          []string{},
	Title:            "wordflow API",
	Description:      "Usage ledger, scheduled post automation and Stripe entitlement sync.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
