// Package docs holds the OpenAPI document served at /swagger. It is kept in
// the shape `swag init` emits so regenerating from the handler annotations
// replaces it in place.
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
        "/profiles": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["profiles"],
                "summary": "Submit a profile (create or update) and generate a plan",
                "parameters": [
                    {"description": "Profile", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/services.ProfileInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.SubmitResponse"}},
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handlers.SubmitResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["profiles"],
                "summary": "Replace a profile and generate a plan",
                "parameters": [
                    {"description": "Profile", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/services.ProfileInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.SubmitResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/profiles/lookup": {
            "get": {
                "produces": ["application/json"],
                "tags": ["profiles"],
                "summary": "Find a profile by name and birth date",
                "parameters": [
                    {"type": "string", "description": "Full name", "name": "name", "in": "query", "required": true},
                    {"type": "string", "description": "Birth date (YYYY-MM-DD)", "name": "birth_date", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Profile"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/profiles/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["profiles"],
                "summary": "Get a profile with its collections",
                "parameters": [
                    {"type": "integer", "description": "Profile ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Profile"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/profiles/{id}/plans": {
            "get": {
                "produces": ["application/json"],
                "tags": ["plans"],
                "summary": "List a profile's plans, newest first",
                "parameters": [
                    {"type": "integer", "description": "Profile ID", "name": "id", "in": "path", "required": true},
                    {"type": "integer", "description": "Page (1-based)", "name": "page", "in": "query"},
                    {"type": "integer", "description": "Page size (max 100)", "name": "page_size", "in": "query"},
                    {"type": "string", "description": "ETag from a previous response", "name": "If-None-Match", "in": "header"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.ListPlansResponse"}},
                    "304": {"description": "Not Modified"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/plans/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["plans"],
                "summary": "Get a plan with its sessions",
                "parameters": [
                    {"type": "string", "description": "Plan ID (UUID)", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.PlanResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/plans/{id}/feedback": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["feedback"],
                "summary": "Record feedback and regenerate the plan",
                "parameters": [
                    {"type": "string", "description": "Plan ID (UUID)", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "Retry key", "name": "Idempotency-Key", "in": "header"},
                    {"description": "Feedback", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.FeedbackRequest"}}
                ],
                "responses": {
                    "200": {"description": "Replayed", "schema": {"$ref": "#/definitions/services.FeedbackOutcome"}},
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/services.FeedbackOutcome"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/exercises": {
            "get": {
                "produces": ["application/json"],
                "tags": ["exercises"],
                "summary": "Search the exercise catalog",
                "parameters": [
                    {"type": "string", "description": "Free-text query", "name": "q", "in": "query", "required": true},
                    {"type": "integer", "description": "Max results (1-20, default 5)", "name": "k", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.SearchExercisesResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handlers.ErrorResponse": {
            "type": "object",
            "properties": {
                "request_id": {"type": "string"},
                "code": {"type": "string"},
                "message": {"type": "string"},
                "fields": {"type": "array", "items": {"$ref": "#/definitions/services.FieldError"}}
            }
        },
        "services.FieldError": {
            "type": "object",
            "properties": {
                "field": {"type": "string"},
                "reason": {"type": "string"}
            }
        },
        "services.ProfileInput": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "birth_date": {"type": "string"},
                "email": {"type": "string"},
                "goal": {"type": "string"},
                "training_days_per_week": {"type": "integer"},
                "experience": {"type": "string"},
                "available_days": {"type": "array", "items": {"type": "string"}},
                "equipment": {"type": "array", "items": {"type": "string"}},
                "muscle_focus": {"type": "array", "items": {"type": "string"}},
                "starting_weights": {"type": "object", "additionalProperties": {"type": "number"}},
                "base_distance": {"type": "number"},
                "distance_unit": {"type": "string"},
                "preferred_time": {"type": "string"},
                "start_date": {"type": "string"},
                "goal_date": {"type": "string"},
                "long_run_day": {"type": "string"},
                "session_type_preference": {"type": "string"}
            }
        },
        "handlers.SubmitResponse": {
            "type": "object",
            "properties": {
                "profile_id": {"type": "integer"},
                "plan_id": {"type": "string"},
                "artifact_reference": {"type": "string"},
                "regenerated": {"type": "boolean"},
                "reconcile": {"type": "object"}
            }
        },
        "domain.Profile": {
            "type": "object",
            "properties": {
                "user": {"type": "object"},
                "equipment": {"type": "array", "items": {"type": "string"}},
                "muscle_focus": {"type": "array", "items": {"type": "string"}},
                "starting_weights": {"type": "object", "additionalProperties": {"type": "number"}}
            }
        },
        "handlers.ListPlansResponse": {
            "type": "object",
            "properties": {
                "plans": {"type": "array", "items": {"type": "object"}},
                "pagination": {"type": "object"}
            }
        },
        "handlers.PlanResponse": {
            "type": "object",
            "properties": {
                "plan": {"type": "object"},
                "sessions": {"type": "array", "items": {"type": "object"}}
            }
        },
        "handlers.FeedbackRequest": {
            "type": "object",
            "properties": {
                "profile_id": {"type": "integer"},
                "satisfaction": {"type": "integer"},
                "comments": {"type": "string"},
                "progress_weights": {"type": "object", "additionalProperties": {"type": "number"}},
                "weight_unit": {"type": "string"},
                "trained_until": {"type": "string"}
            }
        },
        "services.FeedbackOutcome": {
            "type": "object",
            "properties": {
                "feedback_id": {"type": "integer"},
                "profile_id": {"type": "integer"},
                "plan_id": {"type": "string"},
                "adjustments": {"type": "object"},
                "replayed": {"type": "boolean"}
            }
        },
        "handlers.SearchExercisesResponse": {
            "type": "object",
            "properties": {
                "query": {"type": "string"},
                "results": {"type": "array", "items": {"type": "object"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Training Planner API",
	Description:      "Fitness profile synchronization and training plan generation.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
