package cli

import (
	"fmt"
	"strings"

	"github.com/Adda-Baaj/shifter-go/internal/app"
	"github.com/Adda-Baaj/shifter-go/pkg/scrapeapi"
	"github.com/spf13/cobra"
)

type scrapeFlags struct {
	url     string
	params  []string
	headers []string
	body    []string
}

func newScrapeCmd(st *state, method string) *cobra.Command {
	var f scrapeFlags

	cmd := &cobra.Command{
		Use:   strings.ToLower(method),
		Short: fmt.Sprintf("Send a single %s scrape request", method),
		Example: fmt.Sprintf(`  shifter %s --url http://httpbin.org/headers -p render_js=1 -H Wsa-Test=abcd`,
			strings.ToLower(method)),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			qb, err := f.builder()
			if err != nil {
				return err
			}

			client, err := app.NewClient(st.cfg, st.log)
			if err != nil {
				return err
			}

			resp, err := client.Do(cmd.Context(), method, qb)
			if err != nil {
				return err
			}

			fmt.Fprintf(st.errOut, "%s %d\n", method, resp.StatusCode())
			_, err = st.out.Write(resp.Body())
			return err
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.url, "url", "", "page to scrape (shortcut for -p url=...)")
	fl.StringArrayVarP(&f.params, "param", "p", nil, "query parameter name=value (repeatable)")
	fl.StringArrayVarP(&f.headers, "header", "H", nil, "header Name=Value forwarded to the page (repeatable)")
	if method != "GET" {
		fl.StringArrayVarP(&f.body, "body", "d", nil, "JSON body field key=value (repeatable)")
	}
	return cmd
}

func (f scrapeFlags) builder() (*scrapeapi.QueryBuilder, error) {
	params, err := parsePairs("param", f.params)
	if err != nil {
		return nil, err
	}
	headers, err := parsePairs("header", f.headers)
	if err != nil {
		return nil, err
	}
	body, err := parsePairs("body", f.body)
	if err != nil {
		return nil, err
	}

	qb := scrapeapi.NewQueryBuilder()
	for name, value := range params {
		qb.Set(scrapeapi.Param(name), value)
	}
	if f.url != "" {
		qb.Set(scrapeapi.ParamURL, f.url)
	}
	if _, err := qb.Get(scrapeapi.ParamURL); err != nil {
		return nil, fmt.Errorf("--url is required: %w", err)
	}
	return qb.SetHeaders(headers).SetBody(body), nil
}

// parsePairs splits name=value arguments on the first '='. Later duplicates win.
func parsePairs(kind string, values []string) (map[string]string, error) {
	out := make(map[string]string, len(values))
	for _, raw := range values {
		name, value, ok := strings.Cut(raw, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid %s %q (expected name=value)", kind, raw)
		}
		out[name] = value
	}
	return out, nil
}
