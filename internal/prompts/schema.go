package prompts

import "google.golang.org/genai"

// ResponseSchema is the structured-output schema the model must follow.
func ResponseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"title": {
				Type:        genai.TypeString,
				Description: "SEO-friendly blog title, 30-40 characters",
			},
			"content": {
				Type:        genai.TypeString,
				Description: "Markdown body of about 2500 characters containing the [이미지_1] and [이미지_2] markers",
			},
			"conclusion": {
				Type:        genai.TypeString,
				Description: "Closing paragraph of about 200 characters",
			},
			"imageKeywords": {
				Type:        genai.TypeArray,
				Description: "English stock-photo search keywords, one per image marker",
				Items:       &genai.Schema{Type: genai.TypeString},
				MaxItems:    genai.Ptr[int64](2),
			},
			"tags": {
				Type:        genai.TypeArray,
				Description: "Hashtags starting with #",
				Items:       &genai.Schema{Type: genai.TypeString},
			},
		},
		Required:         []string{"title", "content", "conclusion", "imageKeywords", "tags"},
		PropertyOrdering: []string{"title", "content", "conclusion", "imageKeywords", "tags"},
	}
}
