package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "API Flota de Buses",
        "description": "REST backend for bus fleet management",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Buses", "description": "Bus record lifecycle"},
        {"name": "Reports", "description": "Fleet statistics and maintenance reports"},
        {"name": "Reference Data", "description": "Bus states and fuel types"}
    ],
    "paths": {
        "/buses": {
            "get": {
                "tags": ["Buses"],
                "summary": "List buses",
                "parameters": [
                    {"name": "skip", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "estado", "in": "query", "type": "string"},
                    {"name": "marca", "in": "query", "type": "string"},
                    {"name": "buscar", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Buses"],
                "summary": "Register a bus",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateBusRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation or duplicate plate", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/buses/{id}": {
            "get": {
                "tags": ["Buses"],
                "summary": "Get bus",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Buses"],
                "summary": "Update bus (partial)",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateBusRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Buses"],
                "summary": "Soft-delete bus",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/buses/patente/{patente}": {
            "get": {
                "tags": ["Buses"],
                "summary": "Get bus by plate",
                "parameters": [
                    {"name": "patente", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/buses/{id}/kilometraje": {
            "patch": {
                "tags": ["Buses"],
                "summary": "Update odometer reading",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "kilometraje", "in": "query", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/buses/{id}/estado": {
            "patch": {
                "tags": ["Buses"],
                "summary": "Change operational state",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "codigo", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/buses/{id}/restaurar": {
            "post": {
                "tags": ["Buses"],
                "summary": "Restore soft-deleted bus",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/buses/{id}/permanente": {
            "delete": {
                "tags": ["Buses"],
                "summary": "Permanently delete bus (administrative)",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "204": {"description": "Deleted"}
                }
            }
        },
        "/buses/eliminados": {
            "get": {
                "tags": ["Buses"],
                "summary": "List soft-deleted buses",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/buses/reportes/estadisticas": {
            "get": {
                "tags": ["Reports"],
                "summary": "Fleet statistics",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/buses/reportes/mantenimiento-pendiente": {
            "get": {
                "tags": ["Reports"],
                "summary": "Buses due for maintenance",
                "parameters": [
                    {"name": "kilometraje_limite", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/buses/reportes/exportar": {
            "get": {
                "tags": ["Reports"],
                "summary": "Export fleet roster (csv or pdf)",
                "parameters": [
                    {"name": "formato", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File content"}
                }
            }
        },
        "/estados": {
            "get": {
                "tags": ["Reference Data"],
                "summary": "List bus states",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/tipos-combustible": {
            "get": {
                "tags": ["Reference Data"],
                "summary": "List fuel types",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "CreateBusRequest": {
            "type": "object",
            "required": ["patente", "marca", "modelo", "anio", "estado_id", "tipo_combustible_id", "capacidad_sentados"],
            "properties": {
                "patente": {"type": "string"},
                "codigo_interno": {"type": "string"},
                "marca": {"type": "string"},
                "modelo": {"type": "string"},
                "anio": {"type": "integer"},
                "numero_chasis": {"type": "string"},
                "numero_motor": {"type": "string"},
                "estado_id": {"type": "integer"},
                "tipo_combustible_id": {"type": "integer"},
                "capacidad_sentados": {"type": "integer"},
                "kilometraje_actual": {"type": "integer"},
                "fecha_compra": {"type": "string", "format": "date-time"},
                "precio_compra": {"type": "number"},
                "observaciones": {"type": "string"}
            }
        },
        "UpdateBusRequest": {
            "type": "object",
            "properties": {
                "patente": {"type": "string"},
                "codigo_interno": {"type": "string"},
                "marca": {"type": "string"},
                "modelo": {"type": "string"},
                "anio": {"type": "integer"},
                "numero_chasis": {"type": "string"},
                "numero_motor": {"type": "string"},
                "estado_id": {"type": "integer"},
                "tipo_combustible_id": {"type": "integer"},
                "capacidad_sentados": {"type": "integer"},
                "kilometraje_actual": {"type": "integer"},
                "fecha_compra": {"type": "string", "format": "date-time"},
                "precio_compra": {"type": "number"},
                "observaciones": {"type": "string"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "skip": {"type": "integer"},
                "limit": {"type": "integer"},
                "count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
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
