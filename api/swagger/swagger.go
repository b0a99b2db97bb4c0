package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Student Hotspot Portal API",
        "description": "Institutional hotspot access portal: usage sessions, access requests, WiFi provisioning.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Auth", "description": "Login / logout and usage session lifecycle"},
        {"name": "Profile", "description": "Authenticated student profile and usage history"},
        {"name": "Access", "description": "Hotspot access request workflow"},
        {"name": "Hotspot", "description": "Connection instructions and WiFi QR code"},
        {"name": "Admin", "description": "Request triage, student management, hotspot configuration"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Authenticate a student and open a usage session",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Auth failed"}}
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["Auth"],
                "summary": "Close the caller's usage session",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/me": {
            "get": {
                "tags": ["Profile"],
                "summary": "Get the caller's profile and usage totals",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/me/sessions": {
            "get": {
                "tags": ["Profile"],
                "summary": "List the caller's recent usage sessions",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/me/access": {
            "get": {
                "tags": ["Access"],
                "summary": "Report the caller's latest access request status",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/me/access/request": {
            "post": {
                "tags": ["Access"],
                "summary": "File a hotspot access request",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Already granted or duplicate pending"}
                }
            }
        },
        "/hotspot/instructions": {
            "get": {
                "tags": ["Hotspot"],
                "summary": "Get connection instructions for the school hotspot",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Access not approved"}}
            }
        },
        "/hotspot/qrcode": {
            "get": {
                "tags": ["Hotspot"],
                "summary": "Render the WiFi provisioning QR code",
                "security": [{"BearerAuth": []}],
                "produces": ["image/png"],
                "responses": {"200": {"description": "PNG image"}}
            }
        },
        "/hotspot/connect": {
            "post": {
                "tags": ["Hotspot"],
                "summary": "Open (or reattach to) a usage session",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/admin/requests": {
            "get": {
                "tags": ["Admin"],
                "summary": "List pending hotspot access requests",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/admin/requests/{id}/approve": {
            "post": {
                "tags": ["Admin"],
                "summary": "Approve a pending request and grant hotspot access",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Request not found"}}
            }
        },
        "/admin/requests/{id}/reject": {
            "post": {
                "tags": ["Admin"],
                "summary": "Reject a pending request",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Request not found"}}
            }
        },
        "/admin/students": {
            "get": {
                "tags": ["Admin"],
                "summary": "List students",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Admin"],
                "summary": "Provision a new student",
                "security": [{"BearerAuth": []}],
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/admin/students/{id}": {
            "get": {
                "tags": ["Admin"],
                "summary": "Get a student record",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}}
            },
            "put": {
                "tags": ["Admin"],
                "summary": "Update a student record",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "tags": ["Admin"],
                "summary": "Delete a student record",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/admin/students/{id}/usage-report": {
            "get": {
                "tags": ["Admin"],
                "summary": "Export a student's usage history as CSV or PDF",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {"200": {"description": "Report file"}}
            }
        },
        "/admin/hotspot-config": {
            "get": {
                "tags": ["Admin"],
                "summary": "Get the hotspot configuration",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            },
            "put": {
                "tags": ["Admin"],
                "summary": "Update the hotspot configuration",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
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
