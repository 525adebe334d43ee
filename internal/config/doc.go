// Package config manages the persistent chatcfg configuration file.
//
// The registry stores the user's configured chat servers (address, display
// name, permission grants, last validation outcome) and application
// preferences. It lives in the OS-appropriate configuration directory as a
// versioned YAML file and is written atomically (temp file + rename) so a
// crash mid-save cannot corrupt it.
//
// Typical use:
//
//	registry, err := config.LoadRegistry()
//	if err != nil {
//	    return err
//	}
//	id, _ := registry.AddServer("Team", "example", "https://example.chat.platrum.ru")
//	if err := registry.Save(); err != nil {
//	    return err
//	}
//	_ = id
//
// Credentials are never stored here; only server endpoints and client-side
// settings.
package config
