// Package http holds the request and response helpers of the inspection
// API.
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//	    req := gohttp.NewRequest(r)
//	    res := gohttp.NewResponse(w)
//
//	    if req.BearerToken() != token {
//	        res.Unauthorized()
//	        return
//	    }
//	    res.Success(map[string]any{"parent": req.RouteParam("parent")})
//	}
//
// Successful responses are wrapped as {"data": ...}, errors as
// {"message": "..."}, validation failures as {"errors": {"field": [...]}}.
package http
