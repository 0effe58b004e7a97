// Package config loads stockroom's settings.
//
// Resolution order, later steps winning:
//
//  1. Built-in defaults (API at http://127.0.0.1:3001, resource /products,
//     PATCH for updates, 5s request timeout)
//  2. ~/.config/stockroom/config.toml, or the path passed to Load
//  3. A .env file in the working directory, if one exists
//  4. STOCKROOM_* environment variables
//
// A missing config file is not an error. Example config.toml:
//
//	api_base = "http://127.0.0.1:3001"
//	resource_path = "/products"
//	update_method = "PATCH"
//	request_timeout = "5s"
//	refresh_interval = "0s"
//	toast_duration = "3s"
//	log_file = "~/.local/state/stockroom/stockroom.log"
//	log_level = "info"
//
// The environment names are the upper-cased keys with the STOCKROOM_ prefix,
// e.g. STOCKROOM_API_BASE. Durations accept Go duration syntax.
//
// The merged Config is validated before it is returned; an update_method other
// than PATCH or PUT, a non-URL api_base or a non-positive timeout fail Load.
package config
