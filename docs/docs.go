// Package docs registers the Swagger document served under /swagger/.
// Regenerate with: swag init -g cmd/seedkeeper/main.go
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
        "/wallet/status": {
            "get": {
                "produces": ["application/json"],
                "tags": ["wallet"],
                "summary": "Wallet status",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.StatusResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        },
        "/wallet": {
            "get": {
                "produces": ["application/json"],
                "tags": ["wallet"],
                "summary": "Unlocked wallet",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.WalletInfo"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["wallet"],
                "summary": "Delete all data",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.ClearResponse"}}
                }
            }
        },
        "/wallet/lock": {
            "post": {
                "tags": ["wallet"],
                "summary": "Lock wallet",
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/onboarding": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["onboarding"],
                "summary": "Start wizard",
                "parameters": [
                    {"description": "Entry point", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.StartOnboardingRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/model.OnboardingState"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "423": {"description": "Locked", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        },
        "/onboarding/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["onboarding"],
                "summary": "Wizard state",
                "parameters": [
                    {"type": "string", "description": "Wizard id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.OnboardingState"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        },
        "/secrets/encrypt": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["secrets"],
                "summary": "Encrypt a secret",
                "parameters": [
                    {"description": "Plaintext and condition", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.EncryptSecretRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.EncryptSecretResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        },
        "/secrets/decrypt": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["secrets"],
                "summary": "Decrypt a secret",
                "parameters": [
                    {"description": "Base64 ciphertext", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.DecryptSecretRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.DecryptSecretResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "model.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "code": {"type": "string"}
            }
        },
        "model.StartOnboardingRequest": {
            "type": "object",
            "properties": {
                "entry": {"type": "string", "example": "welcome"}
            }
        },
        "model.OnboardingState": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "entry": {"type": "string"},
                "step": {"type": "string"},
                "history": {"type": "array", "items": {"type": "string"}},
                "choice": {"type": "string"},
                "identity": {"type": "string"},
                "address": {"type": "string"},
                "mnemonic": {"type": "array", "items": {"type": "string"}},
                "challenge": {"type": "array", "items": {"type": "integer"}},
                "readOnly": {"type": "boolean"},
                "busy": {"type": "boolean"},
                "done": {"type": "boolean"},
                "outcome": {"type": "string"},
                "lastError": {"type": "string"}
            }
        },
        "model.StatusResponse": {
            "type": "object",
            "properties": {
                "identity": {"type": "string"},
                "platformMode": {"type": "string"},
                "chain": {"type": "string"},
                "storage": {"type": "string"},
                "hasWallet": {"type": "boolean"},
                "backupNeeded": {"type": "boolean"},
                "unlocked": {"type": "boolean"},
                "address": {"type": "string"},
                "displayName": {"type": "string"},
                "conflict": {"type": "boolean"},
                "sessionActive": {"type": "boolean"}
            }
        },
        "model.WalletInfo": {
            "type": "object",
            "properties": {
                "chain": {"type": "string"},
                "address": {"type": "string"},
                "publicKey": {"type": "string"},
                "QR": {"type": "string"}
            }
        },
        "model.ClearResponse": {
            "type": "object",
            "properties": {
                "removed": {"type": "integer"}
            }
        },
        "model.EncryptSecretRequest": {
            "type": "object",
            "properties": {
                "plaintext": {"type": "string"},
                "condition": {"type": "object"}
            }
        },
        "model.EncryptSecretResponse": {
            "type": "object",
            "properties": {
                "ciphertext": {"type": "string"}
            }
        },
        "model.DecryptSecretRequest": {
            "type": "object",
            "properties": {
                "ciphertext": {"type": "string"}
            }
        },
        "model.DecryptSecretResponse": {
            "type": "object",
            "properties": {
                "plaintext": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "seedkeeper API",
	Description:      "Self-custodial wallet onboarding, unlock and seed recovery.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
