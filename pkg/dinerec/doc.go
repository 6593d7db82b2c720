// Package dinerec embeds the dinner restaurant recommender in a Go program.
//
// The client loads a restaurant table once, attaches ratings, builds a
// TF-IDF similarity index and answers filter queries in memory. A Valkey
// or Redis result cache is optional.
//
//	client, _ := dinerec.New(ctx,
//	    dinerec.WithDataset("restaurants.csv"),
//	    dinerec.WithCache("localhost:6379", "", 5*time.Minute),
//	)
//	defer client.Close()
//
//	res, _ := client.Recommend(ctx, dinerec.Query{
//	    Category:   "thai",
//	    PriceLevel: "$$",
//	    MinRating:  3.5,
//	    Order:      dinerec.OrderRating,
//	})
//	near, _ := client.Similar(ctx, res[0].ID, 6)
package dinerec
