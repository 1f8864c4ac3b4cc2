// Package scrapeapi is a client for the Shifter web-scraping API.
//
// A request is described by a QueryBuilder and sent through a Client:
//
//	qb := scrapeapi.NewQueryBuilder().
//		Set(scrapeapi.ParamURL, "http://httpbin.org/headers").
//		Set(scrapeapi.ParamRenderJS, "1").
//		SetHeaders(map[string]string{"Wsa-Test": "abcd"})
//
//	resp, err := client.Get(ctx, qb)
//
// Parameters the upstream adds later can be sent with Set(scrapeapi.Param("name"), v)
// or through the Raw* methods, which take plain maps. Responses are returned as
// received; decoding the body is left to the caller.
package scrapeapi
