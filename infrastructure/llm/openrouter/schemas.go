package openrouter

// JSON schemas sent as the strict response_format of each call. They mirror
// the shapes the client parses; validation after parsing still runs because
// not every provider enforces strict mode.

func treeNodeSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"type": map[string]interface{}{
				"type": "string",
				"enum": []string{"heading", "note", "question"},
			},
			"title":    map[string]interface{}{"type": "string"},
			"question": map[string]interface{}{"type": "string"},
			"text":     map[string]interface{}{"type": "string"},
			"children": map[string]interface{}{
				"type":  "array",
				"items": map[string]interface{}{"$ref": "#/$defs/treeNode"},
			},
		},
		"required":             []string{"type"},
		"additionalProperties": false,
	}
}

func initialTreeSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"$defs": map[string]interface{}{
			"treeNode": treeNodeSchema(),
		},
		"properties": map[string]interface{}{
			"guidelines": map[string]interface{}{
				"type":     "array",
				"items":    map[string]interface{}{"type": "string"},
				"minItems": 5,
				"maxItems": 10,
			},
			"tree": map[string]interface{}{
				"type":  "array",
				"items": map[string]interface{}{"$ref": "#/$defs/treeNode"},
			},
		},
		"required":             []string{"guidelines", "tree"},
		"additionalProperties": false,
	}
}

func followupSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"newQuestions": map[string]interface{}{
				"type": "array",
				"items": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"question": map[string]interface{}{"type": "string"},
						"parentId": map[string]interface{}{
							"type": []string{"string", "null"},
						},
					},
					"required":             []string{"question", "parentId"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []string{"newQuestions"},
		"additionalProperties": false,
	}
}

func reconstructSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"reconstructedText": map[string]interface{}{"type": "string"},
		},
		"required":             []string{"reconstructedText"},
		"additionalProperties": false,
	}
}
