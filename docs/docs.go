// Package docs holds the OpenAPI description of the HTTP API, served under
// /swagger. Regenerate with `swag init -g cmd/server/main.go` after changing
// handler annotations.
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
		"/document-types": {
			"get": {
				"description": "List the supported document types with their extraction steps",
				"produces": [
					"application/json"
				],
				"tags": [
					"document-types"
				],
				"summary": "List document types",
				"responses": {
					"200": {
						"description": "Document types",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/handler.Response"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"type": "array",
											"items": {
												"$ref": "#/definitions/handler.DocumentTypeInfo"
											}
										}
									}
								}
							]
						}
					}
				}
			}
		},
		"/extractions": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"extractions"
				],
				"summary": "List extractions",
				"parameters": [
					{
						"type": "string",
						"description": "Filter by document type",
						"name": "document_type",
						"in": "query"
					},
					{
						"type": "string",
						"description": "Filter by status",
						"name": "status",
						"in": "query",
						"enum": [
							"queued",
							"processing",
							"completed",
							"failed"
						]
					},
					{
						"type": "string",
						"description": "Filter by import process ID (UUID)",
						"name": "import_process_id",
						"in": "query"
					},
					{
						"type": "integer",
						"description": "Offset",
						"name": "offset",
						"in": "query",
						"default": 0
					},
					{
						"type": "integer",
						"description": "Limit",
						"name": "limit",
						"in": "query",
						"default": 20
					}
				],
				"responses": {
					"200": {
						"description": "Extractions",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/handler.PaginatedResponse"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"type": "array",
											"items": {
												"$ref": "#/definitions/domain.Extraction"
											}
										}
									}
								}
							]
						}
					},
					"400": {
						"description": "Invalid filter",
						"schema": {
							"$ref": "#/definitions/handler.ErrorResponseBody"
						}
					}
				}
			},
			"post": {
				"description": "Upload a document and queue it for multi-step extraction. A document already extracted with the same type completes immediately from the result cache.",
				"consumes": [
					"multipart/form-data"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"extractions"
				],
				"summary": "Submit a document for extraction",
				"parameters": [
					{
						"type": "file",
						"description": "Document (pdf, jpg, png)",
						"name": "file",
						"in": "formData",
						"required": true
					},
					{
						"type": "string",
						"description": "Document type",
						"name": "document_type",
						"in": "formData",
						"required": true,
						"enum": [
							"proforma_invoice",
							"commercial_invoice",
							"packing_list",
							"swift",
							"di",
							"numerario",
							"nota_fiscal"
						]
					},
					{
						"type": "string",
						"description": "Import process ID (UUID)",
						"name": "import_process_id",
						"in": "formData"
					}
				],
				"responses": {
					"202": {
						"description": "Extraction queued",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/handler.Response"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"$ref": "#/definitions/domain.Extraction"
										}
									}
								}
							]
						}
					},
					"400": {
						"description": "Invalid upload",
						"schema": {
							"$ref": "#/definitions/handler.ErrorResponseBody"
						}
					},
					"404": {
						"description": "Import process not found",
						"schema": {
							"$ref": "#/definitions/handler.ErrorResponseBody"
						}
					},
					"413": {
						"description": "File too large",
						"schema": {
							"$ref": "#/definitions/handler.ErrorResponseBody"
						}
					}
				}
			}
		},
		"/extractions/stream": {
			"post": {
				"description": "Run the extraction within the request. Sends \"progress\" events before each step, then one \"result\" or \"error\" event.",
				"consumes": [
					"multipart/form-data"
				],
				"produces": [
					"text/event-stream"
				],
				"tags": [
					"extractions"
				],
				"summary": "Extract a document with live progress",
				"parameters": [
					{
						"type": "file",
						"description": "Document (pdf, jpg, png)",
						"name": "file",
						"in": "formData",
						"required": true
					},
					{
						"type": "string",
						"description": "Document type",
						"name": "document_type",
						"in": "formData",
						"required": true
					},
					{
						"type": "string",
						"description": "Import process ID (UUID)",
						"name": "import_process_id",
						"in": "formData"
					}
				],
				"responses": {
					"200": {
						"description": "Event stream",
						"schema": {
							"$ref": "#/definitions/handler.ProgressEvent"
						}
					},
					"400": {
						"description": "Invalid upload",
						"schema": {
							"$ref": "#/definitions/handler.ErrorResponseBody"
						}
					}
				}
			}
		},
		"/extractions/{id}": {
			"get": {
				"description": "Get an extraction with its progress, result and required-field warnings",
				"produces": [
					"application/json"
				],
				"tags": [
					"extractions"
				],
				"summary": "Get extraction by ID",
				"parameters": [
					{
						"type": "string",
						"description": "Extraction ID (UUID)",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "Extraction",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/handler.Response"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"$ref": "#/definitions/domain.Extraction"
										}
									}
								}
							]
						}
					},
					"400": {
						"description": "Invalid ID",
						"schema": {
							"$ref": "#/definitions/handler.ErrorResponseBody"
						}
					},
					"404": {
						"description": "Extraction not found",
						"schema": {
							"$ref": "#/definitions/handler.ErrorResponseBody"
						}
					}
				}
			}
		},
		"/extractions/{id}/export": {
			"get": {
				"produces": [
					"text/csv",
					"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
				],
				"tags": [
					"extractions"
				],
				"summary": "Export a section as a table",
				"parameters": [
					{
						"type": "string",
						"description": "Extraction ID (UUID)",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"type": "string",
						"description": "Section",
						"name": "section",
						"in": "query",
						"default": "items"
					},
					{
						"type": "string",
						"description": "Format",
						"name": "format",
						"in": "query",
						"enum": [
							"csv",
							"xlsx"
						],
						"default": "csv"
					}
				],
				"responses": {
					"200": {
						"description": "Exported table",
						"schema": {
							"type": "file"
						}
					},
					"400": {
						"description": "Invalid section or format",
						"schema": {
							"$ref": "#/definitions/handler.ErrorResponseBody"
						}
					},
					"404": {
						"description": "Extraction or section not found",
						"schema": {
							"$ref": "#/definitions/handler.ErrorResponseBody"
						}
					},
					"409": {
						"description": "Extraction not completed",
						"schema": {
							"$ref": "#/definitions/handler.ErrorResponseBody"
						}
					}
				}
			}
		},
		"/extractions/{id}/file": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"extractions"
				],
				"summary": "Get the original document URL",
				"parameters": [
					{
						"type": "string",
						"description": "Extraction ID (UUID)",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "Presigned URL",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/handler.Response"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"$ref": "#/definitions/handler.FileURLResponse"
										}
									}
								}
							]
						}
					},
					"404": {
						"description": "Extraction not found",
						"schema": {
							"$ref": "#/definitions/handler.ErrorResponseBody"
						}
					}
				}
			}
		},
		"/extractions/{id}/retry": {
			"post": {
				"produces": [
					"application/json"
				],
				"tags": [
					"extractions"
				],
				"summary": "Retry a failed extraction",
				"parameters": [
					{
						"type": "string",
						"description": "Extraction ID (UUID)",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"202": {
						"description": "Extraction queued again",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/handler.Response"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"$ref": "#/definitions/domain.Extraction"
										}
									}
								}
							]
						}
					},
					"404": {
						"description": "Extraction not found",
						"schema": {
							"$ref": "#/definitions/handler.ErrorResponseBody"
						}
					},
					"409": {
						"description": "Extraction is not failed",
						"schema": {
							"$ref": "#/definitions/handler.ErrorResponseBody"
						}
					}
				}
			}
		},
		"/extractions/{id}/sections/{section}": {
			"put": {
				"description": "Replace one section of a completed result with reviewed data. The section source becomes \"manual\".",
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"extractions"
				],
				"summary": "Edit a result section",
				"parameters": [
					{
						"type": "string",
						"description": "Extraction ID (UUID)",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"type": "string",
						"description": "Section",
						"name": "section",
						"in": "path",
						"required": true,
						"enum": [
							"header",
							"items",
							"containers",
							"taxInfo",
							"diInfo",
							"dispositionExplanation"
						]
					},
					{
						"description": "Section data",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.SectionUpdateBody"
						}
					}
				],
				"responses": {
					"200": {
						"description": "Updated extraction",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/handler.Response"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"$ref": "#/definitions/domain.Extraction"
										}
									}
								}
							]
						}
					},
					"400": {
						"description": "Invalid section or data",
						"schema": {
							"$ref": "#/definitions/handler.ErrorResponseBody"
						}
					},
					"404": {
						"description": "Extraction not found",
						"schema": {
							"$ref": "#/definitions/handler.ErrorResponseBody"
						}
					},
					"409": {
						"description": "Extraction not completed",
						"schema": {
							"$ref": "#/definitions/handler.ErrorResponseBody"
						}
					}
				}
			}
		},
		"/import-processes": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"import-processes"
				],
				"summary": "List import processes",
				"parameters": [
					{
						"type": "integer",
						"description": "Offset",
						"name": "offset",
						"in": "query",
						"default": 0
					},
					{
						"type": "integer",
						"description": "Limit",
						"name": "limit",
						"in": "query",
						"default": 20
					}
				],
				"responses": {
					"200": {
						"description": "Import processes",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/handler.PaginatedResponse"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"type": "array",
											"items": {
												"$ref": "#/definitions/domain.ImportProcess"
											}
										}
									}
								}
							]
						}
					}
				}
			},
			"post": {
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"import-processes"
				],
				"summary": "Create an import process",
				"parameters": [
					{
						"description": "Import process",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.CreateImportProcessRequest"
						}
					}
				],
				"responses": {
					"201": {
						"description": "Import process created",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/handler.Response"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"$ref": "#/definitions/domain.ImportProcess"
										}
									}
								}
							]
						}
					},
					"400": {
						"description": "Invalid request",
						"schema": {
							"$ref": "#/definitions/handler.ErrorResponseBody"
						}
					},
					"409": {
						"description": "Reference already exists",
						"schema": {
							"$ref": "#/definitions/handler.ErrorResponseBody"
						}
					}
				}
			}
		},
		"/import-processes/{id}": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"import-processes"
				],
				"summary": "Get an import process with its extractions",
				"parameters": [
					{
						"type": "string",
						"description": "Import process ID (UUID)",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "Import process",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/handler.Response"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"$ref": "#/definitions/domain.ImportProcessDetail"
										}
									}
								}
							]
						}
					},
					"404": {
						"description": "Import process not found",
						"schema": {
							"$ref": "#/definitions/handler.ErrorResponseBody"
						}
					}
				}
			}
		},
		"/import-processes/{id}/extractions/{extractionId}": {
			"post": {
				"produces": [
					"application/json"
				],
				"tags": [
					"import-processes"
				],
				"summary": "Link an extraction to an import process",
				"parameters": [
					{
						"type": "string",
						"description": "Import process ID (UUID)",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"type": "string",
						"description": "Extraction ID (UUID)",
						"name": "extractionId",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "Linked extraction",
						"schema": {
							"allOf": [
								{
									"$ref": "#/definitions/handler.Response"
								},
								{
									"type": "object",
									"properties": {
										"data": {
											"$ref": "#/definitions/domain.Extraction"
										}
									}
								}
							]
						}
					},
					"404": {
						"description": "Import process or extraction not found",
						"schema": {
							"$ref": "#/definitions/handler.ErrorResponseBody"
						}
					}
				}
			}
		}
	},
	"definitions": {
		"domain.Extraction": {
			"type": "object",
			"properties": {
				"attempts": {
					"type": "integer"
				},
				"cache_hit": {
					"type": "boolean"
				},
				"completed_at": {
					"type": "string"
				},
				"content_type": {
					"type": "string",
					"example": "application/pdf"
				},
				"created_at": {
					"type": "string"
				},
				"current_step": {
					"type": "integer"
				},
				"current_step_name": {
					"type": "string",
					"example": "Additions"
				},
				"document_type": {
					"type": "string",
					"enum": [
						"proforma_invoice",
						"commercial_invoice",
						"packing_list",
						"swift",
						"di",
						"numerario",
						"nota_fiscal"
					],
					"example": "di"
				},
				"error_message": {
					"type": "string"
				},
				"file_hash": {
					"type": "string"
				},
				"file_name": {
					"type": "string",
					"example": "di-24-0001.pdf"
				},
				"file_size": {
					"type": "integer"
				},
				"id": {
					"type": "string",
					"example": "550e8400-e29b-41d4-a716-446655440000"
				},
				"import_process_id": {
					"type": "string"
				},
				"input_tokens": {
					"type": "integer"
				},
				"output_tokens": {
					"type": "integer"
				},
				"page_count": {
					"type": "integer"
				},
				"processing_time_ms": {
					"type": "integer"
				},
				"result": {
					"type": "object",
					"description": "Run result: success, documentType, totalSteps, steps, finalResult and metadata"
				},
				"retry_after": {
					"type": "string"
				},
				"status": {
					"type": "string",
					"enum": [
						"queued",
						"processing",
						"completed",
						"failed"
					]
				},
				"total_steps": {
					"type": "integer"
				},
				"updated_at": {
					"type": "string"
				},
				"warnings": {
					"type": "array",
					"items": {
						"type": "object"
					}
				}
			}
		},
		"domain.ImportProcess": {
			"type": "object",
			"properties": {
				"created_at": {
					"type": "string"
				},
				"description": {
					"type": "string"
				},
				"id": {
					"type": "string"
				},
				"reference": {
					"type": "string",
					"example": "IMP-2024-0042"
				},
				"status": {
					"type": "string",
					"enum": [
						"open",
						"closed"
					]
				},
				"updated_at": {
					"type": "string"
				}
			}
		},
		"domain.ImportProcessDetail": {
			"type": "object",
			"properties": {
				"created_at": {
					"type": "string"
				},
				"description": {
					"type": "string"
				},
				"extractions": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/domain.Extraction"
					}
				},
				"id": {
					"type": "string"
				},
				"reference": {
					"type": "string",
					"example": "IMP-2024-0042"
				},
				"status": {
					"type": "string",
					"enum": [
						"open",
						"closed"
					]
				},
				"updated_at": {
					"type": "string"
				}
			}
		},
		"domain.PromptStep": {
			"type": "object",
			"properties": {
				"description": {
					"type": "string"
				},
				"expectsPriorOutput": {
					"type": "boolean"
				},
				"name": {
					"type": "string"
				},
				"step": {
					"type": "integer"
				}
			}
		},
		"handler.APIError": {
			"type": "object",
			"properties": {
				"code": {
					"type": "string",
					"example": "EXTRACTION_NOT_FOUND"
				},
				"message": {
					"type": "string"
				}
			}
		},
		"handler.CreateImportProcessRequest": {
			"type": "object",
			"required": [
				"reference"
			],
			"properties": {
				"description": {
					"type": "string",
					"example": "Pumps from Shanghai, vessel MSC Aurora"
				},
				"reference": {
					"type": "string",
					"example": "IMP-2024-0042"
				}
			}
		},
		"handler.DocumentTypeInfo": {
			"type": "object",
			"properties": {
				"documentType": {
					"type": "string",
					"example": "di"
				},
				"steps": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/domain.PromptStep"
					}
				},
				"totalSteps": {
					"type": "integer"
				}
			}
		},
		"handler.ErrorResponseBody": {
			"type": "object",
			"properties": {
				"error": {
					"$ref": "#/definitions/handler.APIError"
				},
				"success": {
					"type": "boolean",
					"example": false
				}
			}
		},
		"handler.FileURLResponse": {
			"type": "object",
			"properties": {
				"url": {
					"type": "string"
				}
			}
		},
		"handler.PagMeta": {
			"type": "object",
			"properties": {
				"limit": {
					"type": "integer"
				},
				"offset": {
					"type": "integer"
				},
				"total": {
					"type": "integer"
				}
			}
		},
		"handler.PaginatedResponse": {
			"type": "object",
			"properties": {
				"data": {},
				"meta": {
					"$ref": "#/definitions/handler.PagMeta"
				},
				"success": {
					"type": "boolean",
					"example": true
				}
			}
		},
		"handler.ProgressEvent": {
			"type": "object",
			"properties": {
				"step": {
					"type": "integer"
				},
				"stepDescription": {
					"type": "string"
				},
				"stepName": {
					"type": "string"
				},
				"totalSteps": {
					"type": "integer"
				}
			}
		},
		"handler.Response": {
			"type": "object",
			"properties": {
				"data": {},
				"success": {
					"type": "boolean",
					"example": true
				}
			}
		},
		"handler.SectionUpdateBody": {
			"type": "object",
			"additionalProperties": true
		}
	}
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "tradedocs API",
	Description:      "Multi-step LLM extraction of import paperwork: invoices, packing lists, SWIFT, DI, numerario and nota fiscal.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
