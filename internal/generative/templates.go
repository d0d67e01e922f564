package generative

import (
	"fmt"
	"regexp"
	"strings"
)

var variablePattern = regexp.MustCompile(`\{\{(\w+)\}\}`)

// render replaces {{variable}} placeholders in the template with values
// from vars, erroring on any placeholder left unbound.
func render(template string, vars map[string]string) (string, error) {
	var missing []string
	for _, m := range variablePattern.FindAllStringSubmatch(template, -1) {
		if _, ok := vars[m[1]]; !ok {
			missing = append(missing, m[1])
		}
	}
	if len(missing) > 0 {
		return "", fmt.Errorf("missing template variables: %s", strings.Join(missing, ", "))
	}

	return variablePattern.ReplaceAllStringFunc(template, func(match string) string {
		return vars[match[2:len(match)-2]]
	}), nil
}

const simplifyTemplate = `Please simplify the following text to make it more accessible for people with dyslexia. Use shorter sentences, simpler words, and clearer structure while maintaining the original meaning:

{{text}}`

const planTemplate = `Create a comprehensive dyslexia-friendly teaching plan for the topic "{{topic}}" for grade {{grade}} students, with a duration of {{duration}}. Include:

1. Learning objectives (clear and simple)
2. Materials needed
3. Step-by-step activities (with visual aids suggestions)
4. Assessment methods (dyslexia-friendly)
5. Differentiation strategies
6. Extension activities

Please use simple language, bullet points, and clear structure.`

const quizTemplate = `Based on the following content, create a {{difficulty}} level quiz that is dyslexia-friendly. Include:

1. 5 multiple choice questions with clear, simple language
2. 3 short answer questions
3. 1 visual/diagram question suggestion
4. Answer key

Content: {{content}}

Please use simple vocabulary, clear formatting, and avoid complex sentence structures.`
