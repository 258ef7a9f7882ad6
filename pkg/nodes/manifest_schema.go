package nodes

// ManifestSchema is the JSON Schema for package manifest validation
const ManifestSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["name", "version"],
  "properties": {
    "name": {
      "type": "string",
      "minLength": 1,
      "description": "Package name, optionally scoped"
    },
    "version": {
      "type": "string",
      "minLength": 1,
      "description": "Package version"
    },
    "n8n": {
      "type": "object",
      "properties": {
        "nodes": {
          "type": "array",
          "items": { "type": "string", "minLength": 1 },
          "description": "Declared node module paths"
        },
        "credentials": {
          "type": "array",
          "items": { "type": "string", "minLength": 1 },
          "description": "Declared credential module paths"
        }
      }
    }
  }
}`
