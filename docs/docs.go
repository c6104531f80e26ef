// Package docs 注册 Swagger 文档，供 /swagger/ 页面读取。
// 修改 handler 的 swag 注释后需要同步更新这里的路径定义。
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
        "/health": {
            "get": {
                "description": "返回应用当前健康状态",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "健康检查",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.Response"}}}
            }
        },
        "/tasks": {
            "get": {
                "description": "按用户顺序返回任务；sort 只影响本次返回的视图，today 只返回今天到期的任务",
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "获取任务列表",
                "parameters": [
                    {"enum": ["date", "priority"], "type": "string", "description": "排序方式", "name": "sort", "in": "query"},
                    {"type": "boolean", "description": "只看今天", "name": "today", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.Response"}}
                }
            },
            "post": {
                "description": "追加一个任务到列表末尾；date 和 time 要么都填要么都不填",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "创建任务",
                "parameters": [
                    {"description": "任务内容", "name": "task", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.CreateTaskRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.Response"}}
                }
            }
        },
        "/tasks/clear-completed": {
            "post": {
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "清除已完成任务",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.Response"}}}
            }
        },
        "/tasks/countdowns": {
            "get": {
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "倒计时",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.Response"}}}
            }
        },
        "/tasks/sort": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "排序任务",
                "parameters": [
                    {"description": "排序方式", "name": "sort", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.SortRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.Response"}}
                }
            }
        },
        "/tasks/stats": {
            "get": {
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "统计信息",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.Response"}}}
            }
        },
        "/tasks/{id}": {
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "修改任务文本",
                "parameters": [
                    {"type": "string", "description": "任务ID", "name": "id", "in": "path", "required": true},
                    {"description": "新文本", "name": "task", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.EditTaskRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.Response"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "删除任务",
                "parameters": [
                    {"type": "string", "description": "任务ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.Response"}}}
            }
        },
        "/tasks/{id}/move": {
            "post": {
                "description": "向下拖动时放到目标之后，向上拖动时放到目标之前",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "拖动排序",
                "parameters": [
                    {"type": "string", "description": "被拖动的任务ID", "name": "id", "in": "path", "required": true},
                    {"description": "目标", "name": "move", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.MoveTaskRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.Response"}}
                }
            }
        },
        "/tasks/{id}/toggle": {
            "post": {
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "切换完成状态",
                "parameters": [
                    {"type": "string", "description": "任务ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.Response"}}
                }
            }
        },
        "/notifications/permission": {
            "get": {
                "produces": ["application/json"],
                "tags": ["notifications"],
                "summary": "通知权限",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.Response"}}}
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["notifications"],
                "summary": "设置通知权限",
                "parameters": [
                    {"description": "granted, denied 或 default", "name": "permission", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.PermissionRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.Response"}}}
            }
        },
        "/interaction": {
            "post": {
                "produces": ["application/json"],
                "tags": ["notifications"],
                "summary": "记录用户交互",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.Response"}}}
            }
        }
    },
    "definitions": {
        "handler.CreateTaskRequest": {
            "type": "object",
            "properties": {
                "date": {"type": "string", "example": "2025-05-30"},
                "priority": {"type": "string", "example": "high"},
                "text": {"type": "string", "example": "Buy groceries"},
                "time": {"type": "string", "example": "16:00"}
            }
        },
        "handler.EditTaskRequest": {
            "type": "object",
            "properties": {
                "text": {"type": "string", "example": "Finish weekly report"}
            }
        },
        "handler.ErrorInfo": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "handler.MoveTaskRequest": {
            "type": "object",
            "properties": {
                "end": {"type": "boolean"},
                "target_id": {"type": "string"}
            }
        },
        "handler.PermissionRequest": {
            "type": "object",
            "properties": {
                "permission": {"type": "string", "example": "granted"}
            }
        },
        "handler.Response": {
            "type": "object",
            "properties": {
                "data": {},
                "error": {"$ref": "#/definitions/handler.ErrorInfo"},
                "message": {"type": "string"},
                "success": {"type": "boolean"}
            }
        },
        "handler.SortRequest": {
            "type": "object",
            "properties": {
                "by": {"type": "string", "example": "priority"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:7789",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Todo Reminder API",
	Description:      "有序任务列表、倒计时与到期提醒",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
