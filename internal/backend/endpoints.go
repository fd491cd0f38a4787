package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
)

// Analysis is the result of document transcription and summarization.
type Analysis struct {
	Purpose         string   `json:"purpose"`
	Summary         string   `json:"summary"`
	TranscribedText string   `json:"transcribed_text"`
	Requirements    []string `json:"requirements"`
}

// AnalyzeUpload sends a document file for transcription and summarization.
func (c *Client) AnalyzeUpload(ctx context.Context, filename, mimeType string, r io.Reader) (*Analysis, error) {
	const op = "analyze upload"

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("%s: build form: %w", op, err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("%s: read file: %w", op, err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("%s: finish form: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/analyze_doc/upload", &body)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(resp.Body)
		return nil, &RemoteError{Op: op, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	var out Analysis
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%s: decode response: %w", op, err)
	}
	if out.Requirements == nil {
		out.Requirements = []string{}
	}
	return &out, nil
}

// AnalyzeImage transcribes and summarizes a base64-encoded still image.
// Used for the cropped-selection path.
func (c *Client) AnalyzeImage(ctx context.Context, base64Content, mimeType string) (*Analysis, error) {
	in := struct {
		FileContent string `json:"file_content"`
		IsImage     bool   `json:"is_image"`
		MimeType    string `json:"mime_type"`
		IsBase64    bool   `json:"is_base64"`
	}{base64Content, true, mimeType, true}

	var out Analysis
	if err := c.postJSON(ctx, "analyze image", "/analyze_doc", in, &out); err != nil {
		return nil, err
	}
	if out.Requirements == nil {
		out.Requirements = []string{}
	}
	return &out, nil
}

// Info is the categorized important-info extraction.
type Info struct {
	Deadlines []string `json:"deadlines"`
	Notices   []string `json:"notices"`
	Rules     []string `json:"rules"`
	Other     []string `json:"other"`
}

// ImportantInfo extracts deadlines, notices, rules and other critical facts
// from the document context.
func (c *Client) ImportantInfo(ctx context.Context, documentContext string) (*Info, error) {
	in := struct {
		DocumentContext string `json:"document_context"`
	}{documentContext}

	var out Info
	if err := c.postJSON(ctx, "important info", "/important_info", in, &out); err != nil {
		return nil, err
	}
	for _, lst := range []*[]string{&out.Deadlines, &out.Notices, &out.Rules, &out.Other} {
		if *lst == nil {
			*lst = []string{}
		}
	}
	return &out, nil
}

// Simplify asks for a plain-language explanation of the selected text.
// The payload may be a plain string or a JSON array encoded as a string;
// interpretation is left to the caller.
func (c *Client) Simplify(ctx context.Context, selectedText, documentContext string) (string, error) {
	in := struct {
		SelectedText    string `json:"selected_text"`
		DocumentContext string `json:"document_context"`
	}{selectedText, documentContext}

	var out struct {
		Explanation string `json:"explanation"`
	}
	if err := c.postJSON(ctx, "simplify", "/simplify", in, &out); err != nil {
		return "", err
	}
	return out.Explanation, nil
}

// Translate translates text into the target language. A response missing
// translated_text falls back to the input text rather than going blank.
func (c *Client) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	in := struct {
		Text           string `json:"text"`
		TargetLanguage string `json:"target_language"`
	}{text, targetLanguage}

	var out struct {
		TranslatedText string `json:"translated_text"`
	}
	if err := c.postJSON(ctx, "translate", "/translate", in, &out); err != nil {
		return "", err
	}
	if strings.TrimSpace(out.TranslatedText) == "" {
		return text, nil
	}
	return out.TranslatedText, nil
}

// Default synthesis parameters, matching the service's own defaults.
const (
	DefaultTTSModel  = "eleven_multilingual_v2"
	DefaultTTSFormat = "mp3_44100_128"
)

// Synthesize converts text to speech and returns the raw audio payload.
func (c *Client) Synthesize(ctx context.Context, text, modelID, outputFormat string) ([]byte, error) {
	const op = "synthesize"
	if modelID == "" {
		modelID = DefaultTTSModel
	}
	if outputFormat == "" {
		outputFormat = DefaultTTSFormat
	}

	in := struct {
		Text         string `json:"text"`
		ModelID      string `json:"model_id"`
		OutputFormat string `json:"output_format"`
	}{text, modelID, outputFormat}

	payload, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("%s: encode request: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/tts", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(resp.Body)
		return nil, &RemoteError{Op: op, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: read audio: %w", op, err)
	}
	return audio, nil
}

// NextSteps asks for an ordered step list for the given form context.
func (c *Client) NextSteps(ctx context.Context, formContext string) ([]string, error) {
	in := struct {
		FormContext string `json:"form_context"`
	}{formContext}

	var out struct {
		Steps []string `json:"steps"`
	}
	if err := c.postJSON(ctx, "next steps", "/next_steps", in, &out); err != nil {
		return nil, err
	}
	if out.Steps == nil {
		out.Steps = []string{}
	}
	return out.Steps, nil
}

// DraftResponse requests a drafted reply letter. The language is a display
// name ("Spanish"), not a code.
func (c *Client) DraftResponse(ctx context.Context, documentType, documentContext, language string) (string, error) {
	in := struct {
		DocumentType    string `json:"document_type"`
		DocumentContext string `json:"document_context"`
		Language        string `json:"language"`
	}{documentType, documentContext, language}

	var out struct {
		Draft string `json:"draft"`
	}
	if err := c.postJSON(ctx, "draft response", "/draft_response", in, &out); err != nil {
		return "", err
	}
	return out.Draft, nil
}

// Chat asks the expert endpoint a question against the document context.
func (c *Client) Chat(ctx context.Context, question, documentContext string) (string, error) {
	in := struct {
		Question        string `json:"question"`
		DocumentContext string `json:"document_context"`
	}{question, documentContext}

	var out struct {
		Answer string `json:"answer"`
	}
	if err := c.postJSON(ctx, "chat", "/chat", in, &out); err != nil {
		return "", err
	}
	return out.Answer, nil
}
