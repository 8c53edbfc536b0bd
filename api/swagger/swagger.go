package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Otakupedia Catalog API",
        "description": "Media catalog and community contribution backend",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Accounts, sessions, tokens"},
        {"name": "Contributions", "description": "Community catalog contributions"},
        {"name": "Moderation", "description": "Contribution review queue"},
        {"name": "Lookups", "description": "Entity selectors for contribution forms"},
        {"name": "Scanlation", "description": "Groups, projects, link requests"},
        {"name": "Reviews", "description": "User reviews on catalog entries"},
        {"name": "Notifications", "description": "User notification polling"},
        {"name": "Cron", "description": "Scheduled maintenance endpoints"},
        {"name": "Exports", "description": "Moderation activity exports"}
    ],
    "paths": {
        "/auth/register": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Register a new account",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Envelope"}},
                    "409": {"description": "Email or username taken", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate by email and password",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Exchange a refresh token",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Revoke the current refresh token",
                "responses": {
                    "204": {"description": "Revoked"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Current user profile",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/user/contributions": {
            "get": {
                "tags": ["Contributions"],
                "summary": "List the caller's contributions",
                "parameters": [
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "type", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            },
            "post": {
                "tags": ["Contributions"],
                "summary": "Submit a full or report contribution",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitContributionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Pending contribution created", "schema": {"$ref": "#/definitions/Envelope"}},
                    "400": {"description": "Payload failed schema validation", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/user/contributions/{id}": {
            "get": {
                "tags": ["Contributions"],
                "summary": "Get one contribution",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}},
                    "403": {"description": "Not the author or a moderator", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/content-contributions": {
            "post": {
                "tags": ["Contributions"],
                "summary": "Submit an edit contribution against an existing entry",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitContributionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Pending contribution created", "schema": {"$ref": "#/definitions/Envelope"}},
                    "409": {"description": "No changes against the stored entity", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/moderation/contributions": {
            "get": {
                "tags": ["Moderation"],
                "summary": "List contributions awaiting review",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/moderation/contributions/counts": {
            "get": {
                "tags": ["Moderation"],
                "summary": "Queue counts per status",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/moderation/contributions/{id}": {
            "get": {
                "tags": ["Moderation"],
                "summary": "Contribution review detail",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            },
            "patch": {
                "tags": ["Moderation"],
                "summary": "Approve, reject, or park a contribution",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReviewDecisionRequest"}}
                ],
                "responses": {
                    "200": {"description": "Decision applied", "schema": {"$ref": "#/definitions/Envelope"}},
                    "409": {"description": "Already decided", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/genres": {
            "get": {
                "tags": ["Lookups"],
                "summary": "Search genres",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/studios": {
            "get": {
                "tags": ["Lookups"],
                "summary": "Search studios",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}}
            },
            "post": {
                "tags": ["Lookups"],
                "summary": "Create a studio",
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/Envelope"}}}
            }
        },
        "/staff": {
            "get": {
                "tags": ["Lookups"],
                "summary": "Search staff",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}}
            },
            "post": {
                "tags": ["Lookups"],
                "summary": "Create a staff member",
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/Envelope"}}}
            }
        },
        "/characters": {
            "get": {
                "tags": ["Lookups"],
                "summary": "Search characters",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}}
            },
            "post": {
                "tags": ["Lookups"],
                "summary": "Create a character",
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/Envelope"}}}
            }
        },
        "/voice-actors": {
            "get": {
                "tags": ["Lookups"],
                "summary": "Search voice actors",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}}
            },
            "post": {
                "tags": ["Lookups"],
                "summary": "Create a voice actor",
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/Envelope"}}}
            }
        },
        "/scan/groups": {
            "get": {
                "tags": ["Scanlation"],
                "summary": "Search scanlation groups",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}}
            },
            "post": {
                "tags": ["Scanlation"],
                "summary": "Create a scanlation group",
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/Envelope"}}}
            }
        },
        "/scan/projects": {
            "get": {
                "tags": ["Scanlation"],
                "summary": "List scanlation projects",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}}
            },
            "post": {
                "tags": ["Scanlation"],
                "summary": "Register a project",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Envelope"}},
                    "409": {"description": "Project already registered", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/scan/projects/{id}": {
            "put": {
                "tags": ["Scanlation"],
                "summary": "Update a project",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}}
            },
            "delete": {
                "tags": ["Scanlation"],
                "summary": "Delete a project",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"204": {"description": "Deleted"}}
            }
        },
        "/scan/link-requests": {
            "get": {
                "tags": ["Scanlation"],
                "summary": "List link requests for owned groups",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}}
            },
            "post": {
                "tags": ["Scanlation"],
                "summary": "Propose a group link",
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/Envelope"}}}
            }
        },
        "/scan/link-requests/{id}": {
            "patch": {
                "tags": ["Scanlation"],
                "summary": "Approve or reject a link request",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}},
                    "409": {"description": "Already decided", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/reviews": {
            "get": {
                "tags": ["Reviews"],
                "summary": "List reviews for an entry",
                "parameters": [
                    {"name": "type", "in": "query", "required": true, "type": "string"},
                    {"name": "id", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}}
            },
            "post": {
                "tags": ["Reviews"],
                "summary": "Create or update the caller's review",
                "responses": {
                    "200": {"description": "Updated", "schema": {"$ref": "#/definitions/Envelope"}},
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/reviews/{id}/helpful": {
            "post": {
                "tags": ["Reviews"],
                "summary": "Mark a review as helpful",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}}
            }
        },
        "/reviews/{id}": {
            "delete": {
                "tags": ["Reviews"],
                "summary": "Delete a review",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"204": {"description": "Deleted"}}
            }
        },
        "/notifications": {
            "get": {
                "tags": ["Notifications"],
                "summary": "List the caller's notifications",
                "parameters": [
                    {"name": "unread", "in": "query", "type": "boolean"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}}
            }
        },
        "/notifications/{id}/read": {
            "post": {
                "tags": ["Notifications"],
                "summary": "Mark one notification read",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}}
            }
        },
        "/notifications/read-all": {
            "post": {
                "tags": ["Notifications"],
                "summary": "Mark all notifications read",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}}
            }
        },
        "/cron/refresh-rankings": {
            "get": {
                "tags": ["Cron"],
                "summary": "Scheduled ranking refresh (throttled)",
                "parameters": [{"name": "Authorization", "in": "header", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "Refreshed or skipped"},
                    "401": {"description": "Invalid cron secret"},
                    "500": {"description": "Secret unconfigured or database failure"}
                }
            },
            "post": {
                "tags": ["Cron"],
                "summary": "Manual ranking refresh (unthrottled)",
                "parameters": [{"name": "Authorization", "in": "header", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "Refreshed"},
                    "401": {"description": "Invalid cron secret"}
                }
            }
        },
        "/admin/exports": {
            "post": {
                "tags": ["Exports"],
                "summary": "Queue a moderation activity export",
                "responses": {"202": {"description": "Queued", "schema": {"$ref": "#/definitions/Envelope"}}}
            }
        },
        "/admin/exports/{id}": {
            "get": {
                "tags": ["Exports"],
                "summary": "Export job status",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}}
            }
        },
        "/export/{token}": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download an export via signed token",
                "parameters": [{"name": "token", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "File download"},
                    "401": {"description": "Invalid or expired token"}
                }
            }
        }
    },
    "definitions": {
        "RegisterRequest": {
            "type": "object",
            "required": ["email", "username", "password"],
            "properties": {
                "email": {"type": "string"},
                "username": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "SubmitContributionRequest": {
            "type": "object",
            "required": ["contributable_type", "contribution_type", "data"],
            "properties": {
                "contributable_type": {"type": "string", "enum": ["anime", "manga", "manhwa", "manhua", "novel", "donghua", "fan_comic", "genre", "studio", "staff", "character", "voice_actor"]},
                "contributable_id": {"type": "string"},
                "contribution_type": {"type": "string", "enum": ["full", "add_info", "modification", "report"]},
                "data": {"type": "object"},
                "notes": {"type": "string"},
                "sources": {"type": "string"}
            }
        },
        "ReviewDecisionRequest": {
            "type": "object",
            "required": ["action"],
            "properties": {
                "action": {"type": "string", "enum": ["approve", "reject", "review"]},
                "rejection_reason": {"type": "string"}
            }
        },
        "Envelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "error": {"type": "string"},
                "code": {"type": "string"},
                "pagination": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
