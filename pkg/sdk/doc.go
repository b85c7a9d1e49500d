// Package matzip provides a Go client for the matzip restaurant
// recommendation API.
//
// The client talks to a running matzip server over HTTP:
//
//	client, _ := matzip.New("http://localhost:8080",
//	    matzip.WithAPIKey("secret"),
//	)
//	out, _ := client.ChatSearch(ctx, matzip.ChatSearchRequest{
//	    UserID: "u1",
//	    Query:  "조용한 분위기의 이탈리안 맛집",
//	})
//	for _, r := range out.Restaurants {
//	    fmt.Println(r.Name, r.Score)
//	}
//
// Inline preferences override the stored profile for one request. An
// absent UserPreferences map means "use the stored profile"; an empty
// non-nil map means "ignore the profile entirely":
//
//	out, _ = client.ChatSearch(ctx, matzip.ChatSearchRequest{
//	    Query:           "스테이크",
//	    UserPreferences: map[string]float64{"food": 5, "price": 1},
//	})
//
// Failures carry machine-readable sentinels:
//
//	_, err := client.Restaurant(ctx, "missing")
//	if errors.Is(err, matzip.ErrRestaurantNotFound) { ... }
package matzip
