package insight

import (
	"fmt"
	"strings"

	"cashflow-insight/internal/models"
)

// languageInstructions steer the model into the shop owner's language.
// Unknown languages fall back to English.
var languageInstructions = map[string]string{
	"italian": "Rispondi SEMPRE in italiano. Usa un tono professionale ma colloquiale, " +
		"come se stessi consigliando direttamente un imprenditore italiano. " +
		"Struttura la risposta con paragrafi chiari e numerati.",
	"spanish": "Responde SIEMPRE en español. Usa un tono profesional pero conversacional, " +
		"como si estuvieras aconsejando directamente a un empresario español. " +
		"Estructura tu respuesta con párrafos claros y numerados.",
	"english": "Respond in English with a professional but conversational tone, " +
		"like you're advising a business owner directly. " +
		"Structure your response with clear, numbered paragraphs.",
}

func languageInstruction(language string) string {
	if instr, ok := languageInstructions[strings.ToLower(language)]; ok {
		return instr
	}
	return languageInstructions["english"]
}

func systemPrompt(kind, language string) string {
	var role string
	switch kind {
	case models.AnalysisKindCashEaters:
		role = "You are an expert retail financial advisor who gives clear, actionable advice."
	case models.AnalysisKindReorder:
		role = "You are an expert inventory management advisor for retail businesses."
	case models.AnalysisKindClearance:
		role = "You are a cash flow expert helping retailers free up working capital."
	default:
		role = "You are a senior business consultant providing executive-level retail insights."
	}
	return fmt.Sprintf("%s %s Use **bold** for headings and clear paragraph breaks.", role, languageInstruction(language))
}

func userPrompt(kind, payload, language string) string {
	var b strings.Builder
	switch kind {
	case models.AnalysisKindCashEaters:
		b.WriteString("Analyze the following cash flow data:\n\n")
		b.WriteString(payload)
		b.WriteString("\n\nProvide a structured analysis answering \"What's eating my cash flow?\" Format your response with:\n\n")
		b.WriteString("1. **Biggest cash drain assessment** (2-3 sentences)\n\n")
		b.WriteString("2. **Specific actionable recommendations** (3-4 key points)\n\n")
		b.WriteString("3. **Quick wins for this week** (immediate actions)\n\n")
		b.WriteString("Use clear paragraph breaks between sections for readability.\n")

	case models.AnalysisKindReorder:
		b.WriteString("Based on this reorder plan, provide analysis:\n\n")
		b.WriteString(payload)
		b.WriteString("\n\nProvide structured analysis for \"What should I reorder with my budget?\" Format with:\n\n")
		b.WriteString("1. **Purchase plan assessment** (2-3 sentences on the overall strategy)\n\n")
		b.WriteString("2. **Product prioritization rationale** (why these specific items)\n\n")
		b.WriteString("3. **Expected ROI and cash flow impact** (quantified benefits where possible)\n\n")
		b.WriteString("4. **Alternative strategies** (other options to consider)\n\n")
		b.WriteString("Be specific about financial impact.\n")

	case models.AnalysisKindClearance:
		b.WriteString("Based on this slow-mover clearance projection:\n\n")
		b.WriteString(payload)
		b.WriteString("\n\nProvide structured analysis for \"How much cash can I free up?\" Format with:\n\n")
		b.WriteString("1. **Cash liberation opportunities** (biggest opportunities to free up cash)\n\n")
		b.WriteString("2. **Clearance strategy** (how to move slow inventory)\n\n")
		b.WriteString("3. **Implementation plan** (steps to execute this week)\n\n")
		b.WriteString("Use numbered points with short, clear explanations.\n")

	default:
		b.WriteString("Provide a brief executive summary based on this business snapshot:\n\n")
		b.WriteString(payload)
		b.WriteString("\n\nProvide:\n")
		b.WriteString("1. **Key business health indicators** (2-3 sentences)\n")
		b.WriteString("2. **Top 2 opportunities for improvement**\n")
		b.WriteString("3. **Critical action item for this week**\n\n")
		b.WriteString("Keep it concise and executive-focused with clear paragraph breaks.\n")
	}
	return b.String()
}
