package gsheets

import "bytes"

// ExtractEnvelope вырезает JSON из обёртки вида
// "/*O_o*/ google.visualization.Query.setResponse({...});"
// от первой '{' до последней '}'.
func ExtractEnvelope(body []byte) ([]byte, bool) {
	start := bytes.IndexByte(body, '{')
	end := bytes.LastIndexByte(body, '}')
	if start < 0 || end < start {
		return nil, false
	}
	return body[start : end+1], true
}
