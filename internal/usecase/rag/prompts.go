package rag

import (
	"fmt"
	"strings"
)

const groundedPromptTemplate = `You are an expert assistant specializing in: %s

Answer questions about %s based ONLY on the provided documents.

CONTEXT FROM DOCUMENTS:
%s

USER QUESTION: %s

INSTRUCTIONS:
- Answer based ONLY on the provided context
- If the answer is not in the context, say so
- When citing information, include the document title, author, and year if available
- Be concise and clear
- Focus on %s-specific insights
`

const synthesisPromptTemplate = `You are an expert assistant with knowledge across multiple domains: %s

Answer the following question by synthesizing insights from multiple knowledge domains.

CONTEXT:
%s

QUESTION: %s

Synthesize the answer across topics and explain how different domains relate to the question.
`

func groundedPrompt(topicDescription, topic, context, query string) string {
	return fmt.Sprintf(groundedPromptTemplate, topicDescription, topic, context, query, topic)
}

func synthesisPrompt(topics []string, context, query string) string {
	return fmt.Sprintf(synthesisPromptTemplate, strings.Join(topics, ", "), context, query)
}
