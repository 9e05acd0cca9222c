package correlator

import "fmt"

// EventCode identifies a decoded Sysmon/ETW event class. The correlator
// never interprets per-event-ID field schemas (spec §2); it only needs
// the code to resolve an (ActorType, ArtifactKind) pair.
type EventCode string

// Representative event codes from spec §6. The table is not exhaustive;
// any code absent from eventCodeTable resolves to ErrUnsupported.
const (
	EventFileModify       EventCode = "Sysmon-2"
	EventNetworkConnect   EventCode = "Sysmon-3"
	EventRemoteThread     EventCode = "Sysmon-8"
	EventFileCreate       EventCode = "Sysmon-11"
	EventRegistryAdd      EventCode = "Sysmon-12-add"
	EventRegistryDelete   EventCode = "Sysmon-12-del"
	EventRegistrySet      EventCode = "Sysmon-13"
	EventRegistryRename   EventCode = "Sysmon-14"
	EventCreateStreamHash EventCode = "Sysmon-15"
	EventFileDelete       EventCode = "Sysmon-23"
	EventProcessTampering EventCode = "Sysmon-25"
	EventFileCreate2      EventCode = "Sysmon-29"
)

type eventMapping struct {
	ActorType ActorType
	Kind      ArtifactKind
}

var eventCodeTable = map[EventCode]eventMapping{
	EventFileModify:       {Modify, KindFile},
	EventNetworkConnect:   {Connect, KindNetwork},
	EventRemoteThread:     {RemoteThread, KindProcess},
	EventFileCreate:       {Create, KindFile},
	EventRegistryAdd:      {RegAdd, KindRegistry},
	EventRegistryDelete:   {RegDelete, KindRegistry},
	EventRegistrySet:      {RegSet, KindRegistry},
	EventRegistryRename:   {RegRename, KindRegistry},
	EventCreateStreamHash: {CreateStreamHash, KindFile},
	EventFileDelete:       {Delete, KindFile},
	EventProcessTampering: {Tampering, KindProcess},
	EventFileCreate2:      {Create, KindFile},
}

// ResolveEventCode translates an event code into its (ActorType,
// ArtifactKind) pair. Unknown codes return ErrUnsupported.
func ResolveEventCode(code EventCode) (actorType ActorType, kind ArtifactKind, err error) {
	m, ok := eventCodeTable[code]
	if !ok {
		return ActorUndefined, KindUndefined, fmt.Errorf("event code %q: %w", code, ErrUnsupported)
	}
	return m.ActorType, m.Kind, nil
}
