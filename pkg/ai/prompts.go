package ai

// ScreenshotPrompt asks a vision model to describe a screen capture.
const ScreenshotPrompt = `
# Task Context
You are describing a screenshot of a computer screen for a personal knowledge graph.

# Rules
1. Name the applications, windows and documents that are visible
2. Transcribe headings and any prominent text exactly as it appears
3. Describe what the user appears to be doing
4. Do not speculate beyond what is visible
5. Answer in plain prose, at most two short paragraphs
`

// SummaryPrompt asks a chat model to summarize recovered document text.
const SummaryPrompt = `
# Task Context
You are summarizing text recovered from a scanned document by OCR.

# Rules
1. Keep the summary faithful to the text; do not add facts
2. Preserve names, dates, numbers and section references exactly
3. Ignore OCR noise such as broken hyphenation and repeated headers
4. Answer in plain prose
`

// ConceptPrompt asks a chat model to structure document text into concepts
// and the relations that connect the document to them.
const ConceptPrompt = `
# Task Context
You are building a knowledge graph from text recovered from a document.

# Rules
1. Extract the key concepts the document is about: people, organisations,
   places, laws, topics and artefacts
2. Use the shortest unambiguous name for each concept
3. For every concept give the relation that links the document to it as a
   short lowercase verb phrase, e.g. "mentions", "defines", "amends"
4. Give a one-sentence description of each concept as used in the document
5. Return at most 25 concepts and never repeat a concept

# Document
`
