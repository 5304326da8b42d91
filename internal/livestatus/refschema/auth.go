package refschema

import "github.com/ringwatch/gostatus/internal/objects"

// hostHasContact reports whether principal is a direct or group contact of h.
func hostHasContact(h *objects.Host, principal string) bool {
	for _, c := range h.Contacts {
		if c.Name == principal {
			return true
		}
	}
	for _, cg := range h.ContactGroups {
		for _, c := range cg.Members {
			if c.Name == principal {
				return true
			}
		}
	}
	return false
}

// serviceHasContact reports whether principal is a direct or group contact
// of svc, falling back to the parent host's contacts.
func serviceHasContact(svc *objects.Service, principal string) bool {
	for _, c := range svc.Contacts {
		if c.Name == principal {
			return true
		}
	}
	for _, cg := range svc.ContactGroups {
		for _, c := range cg.Members {
			if c.Name == principal {
				return true
			}
		}
	}
	if svc.Host != nil {
		return hostHasContact(svc.Host, principal)
	}
	return false
}

func findService(store *objects.ObjectStore, hostName, description string) *objects.Service {
	for _, svc := range store.Services {
		if svc.Host != nil && svc.Host.Name == hostName && svc.Description == description {
			return svc
		}
	}
	return nil
}
