package mockserver

import "github.com/muurk/tpsctl/internal/entry"

func props(kv ...string) []entry.Property {
	out := make([]entry.Property, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		out = append(out, entry.Property{Name: kv[i], Value: kv[i+1]})
	}
	return out
}

// SampleEntries returns a small TPS configuration for demos and tests
func SampleEntries() map[entry.Kind][]*entry.Entry {
	return map[entry.Kind][]*entry.Entry{
		entry.KindProfiles: {
			{ID: "userKey", Status: entry.StatusEnabled, Properties: props(
				"op.enroll.userKey.auth.id", "ldap1",
				"op.enroll.userKey.keyGen.keyType.num", "2",
				"op.enroll.userKey.keyGen.encryption.keySize", "2048",
				"op.enroll.userKey.keyGen.signing.keySize", "2048",
				"op.format.userKey.tokenType", "userKey",
			)},
			{ID: "soKey", Status: entry.StatusDisabled, Properties: props(
				"op.enroll.soKey.auth.id", "ldap1",
				"op.enroll.soKey.keyGen.keyType.num", "2",
				"op.enroll.soKey.keyGen.encryption.keySize", "2048",
			)},
			{ID: "tokenKey", Status: entry.StatusPendingApproval, Properties: props(
				"op.enroll.tokenKey.keyGen.keyType.num", "1",
				"op.enroll.tokenKey.keyGen.signing.keySize", "1024",
			)},
			{ID: "externalRegAddToToken", Status: entry.StatusDisabled, Properties: props(
				"op.enroll.externalRegAddToToken.auth.enable", "true",
			)},
		},
		entry.KindProfileMappings: {
			{ID: "enrollProfileMappingResolver", Status: entry.StatusEnabled, Properties: props(
				"class_id", "mappingTokenProfileResolverImpl",
				"mapping.order", "0,1,2",
				"mapping.0.filter.tokenType", "userKey",
				"mapping.0.target.tokenType", "userKey",
			)},
			{ID: "formatMappingResolver", Status: entry.StatusDisabled, Properties: props(
				"class_id", "mappingTokenProfileResolverImpl",
				"mapping.order", "0",
			)},
		},
		entry.KindConnectors: {
			{ID: "ca1", Status: entry.StatusEnabled, Properties: props(
				"enable", "true",
				"host", "pki.example.com",
				"port", "8443",
				"nickName", "subsystemCert cert-pki-tps",
				"timeout", "30",
				"uri.enrollment", "/ca/ee/ca/profileSubmitSSLClient",
			)},
			{ID: "kra1", Status: entry.StatusDisabled, Properties: props(
				"enable", "false",
				"host", "pki.example.com",
				"port", "8443",
				"uri.GenerateKeyPair", "/kra/agent/kra/GenerateKeyPair",
			)},
			{ID: "tks1", Status: entry.StatusEnabled, Properties: props(
				"enable", "true",
				"host", "pki.example.com",
				"port", "8443",
				"keySet", "defKeySet",
			)},
		},
		entry.KindAuthenticators: {
			{ID: "ldap1", Status: entry.StatusEnabled, Properties: props(
				"ldap.basedn", "dc=example,dc=com",
				"ldap.ldapconn.host", "ldap.example.com",
				"ldap.ldapconn.port", "389",
				"ldap.ldapconn.secureConn", "false",
				"ui.description.en", "This authenticates user against the LDAP directory.",
			)},
		},
	}
}

// SeedStore loads SampleEntries into store
func SeedStore(store *Store) {
	for kind, entries := range SampleEntries() {
		for _, e := range entries {
			store.Put(kind, e)
		}
	}
}
