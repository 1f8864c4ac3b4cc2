package scrapeapi

// Param names a query parameter understood by the scraping API.
type Param string

// Parameters documented by the upstream API.
const (
	ParamURL            Param = "url"
	ParamRenderJS       Param = "render_js"
	ParamProxyType      Param = "proxy_type"
	ParamCountry        Param = "country"
	ParamKeepHeaders    Param = "keep_headers"
	ParamSession        Param = "session"
	ParamTimeout        Param = "timeout"
	ParamDevice         Param = "device"
	ParamWaitUntil      Param = "wait_until"
	ParamWaitFor        Param = "wait_for"
	ParamWaitForCSS     Param = "wait_for_css"
	ParamScreenshot     Param = "screenshot"
	ParamExtractRules   Param = "extract_rules"
	ParamDisableStealth Param = "disable_stealth"
	ParamAutoParser     Param = "auto_parser"
	ParamJSInstructions Param = "js_instructions"
)

var knownParams = []Param{
	ParamURL,
	ParamRenderJS,
	ParamProxyType,
	ParamCountry,
	ParamKeepHeaders,
	ParamSession,
	ParamTimeout,
	ParamDevice,
	ParamWaitUntil,
	ParamWaitFor,
	ParamWaitForCSS,
	ParamScreenshot,
	ParamExtractRules,
	ParamDisableStealth,
	ParamAutoParser,
	ParamJSInstructions,
}

// KnownParams returns every documented parameter name.
func KnownParams() []Param {
	out := make([]Param, len(knownParams))
	copy(out, knownParams)
	return out
}

// Known reports whether p is one of the documented parameters.
func (p Param) Known() bool {
	for _, k := range knownParams {
		if k == p {
			return true
		}
	}
	return false
}

func (p Param) String() string { return string(p) }
