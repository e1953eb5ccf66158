// Package seed loads roaming network infrastructure and authorization lists from YAML.
package seed

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"chargenet/backend/services/roaming-api/internal/domain"
)

// File is the root of a seed document.
type File struct {
	Networks      []Network     `yaml:"networks"`
	Authorization Authorization `yaml:"authorization"`
}

// Network seeds one roaming network.
type Network struct {
	ID               string        `yaml:"id"`
	Name             string        `yaml:"name"`
	Description      string        `yaml:"description"`
	Operators        []Operator    `yaml:"operators"`
	Providers        []NamedEntity `yaml:"providers"`
	ParkingOperators []NamedEntity `yaml:"parkingOperators"`
}

// Operator seeds a charging station operator and its pools.
type Operator struct {
	ID     string         `yaml:"id"`
	Name   string         `yaml:"name"`
	Brands []domain.Brand `yaml:"brands"`
	Pools  []Pool         `yaml:"pools"`
}

type Pool struct {
	ID          string    `yaml:"id"`
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Stations    []Station `yaml:"stations"`
}

type Station struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	EVSEs []EVSE `yaml:"evses"`
}

type EVSE struct {
	ID          string  `yaml:"id"`
	Description string  `yaml:"description"`
	MaxPowerKW  float64 `yaml:"maxPowerKW"`
}

type NamedEntity struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// Authorization seeds the shared authorizator.
type Authorization struct {
	Tokens  []Grant  `yaml:"tokens"`
	EMAIDs  []Grant  `yaml:"emaids"`
	Blocked []string `yaml:"blocked"`
}

// Grant whitelists a token or eMAId for a provider.
type Grant struct {
	ID       string `yaml:"id"`
	Provider string `yaml:"provider"`
}

// Load reads and decodes a seed file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("seed: read file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a seed document; unknown keys are rejected.
func Parse(data []byte) (*File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("seed: decode yaml: %w", err)
	}
	return &f, nil
}

// Apply creates every seeded network in registry and fills its authorizator. Identifiers
// are validated with the same parsers the HTTP layer uses.
func (f *File) Apply(registry *domain.Registry) error {
	if err := f.Authorization.apply(registry.Authorizator()); err != nil {
		return err
	}
	for _, n := range f.Networks {
		if err := n.apply(registry); err != nil {
			return fmt.Errorf("seed: network %q: %w", n.ID, err)
		}
	}
	return nil
}

func (a Authorization) apply(auth *domain.Authorizator) error {
	for _, g := range a.Tokens {
		token, err := domain.ParseAuthToken(g.ID)
		if err != nil {
			return fmt.Errorf("seed: token: %w", err)
		}
		provider, err := optionalProvider(g.Provider)
		if err != nil {
			return err
		}
		auth.AllowToken(token, provider)
	}
	for _, g := range a.EMAIDs {
		emaID, err := domain.ParseEMAID(g.ID)
		if err != nil {
			return fmt.Errorf("seed: emaid: %w", err)
		}
		provider, err := optionalProvider(g.Provider)
		if err != nil {
			return err
		}
		auth.AllowEMAID(emaID, provider)
	}
	for _, raw := range a.Blocked {
		token, err := domain.ParseAuthToken(raw)
		if err != nil {
			return fmt.Errorf("seed: blocked token: %w", err)
		}
		auth.BlockToken(token)
	}
	return nil
}

func optionalProvider(raw string) (domain.EMobilityProviderID, error) {
	if raw == "" {
		return "", nil
	}
	provider, err := domain.ParseEMobilityProviderID(raw)
	if err != nil {
		return "", fmt.Errorf("seed: provider: %w", err)
	}
	return provider, nil
}

func (n Network) apply(registry *domain.Registry) error {
	id, err := domain.ParseRoamingNetworkID(n.ID)
	if err != nil {
		return err
	}
	network, err := registry.Create(id, n.Name, n.Description)
	if err != nil {
		return err
	}

	for _, op := range n.Operators {
		opID, err := domain.ParseChargingStationOperatorID(op.ID)
		if err != nil {
			return err
		}
		if err := network.AddOperator(domain.OperatorSpec{ID: opID, Name: op.Name, Brands: op.Brands}); err != nil {
			return err
		}
		for _, p := range op.Pools {
			if err := applyPool(network, opID, p); err != nil {
				return err
			}
		}
	}
	for _, p := range n.Providers {
		pid, err := domain.ParseEMobilityProviderID(p.ID)
		if err != nil {
			return err
		}
		if err := network.AddEMobilityProvider(domain.EMobilityProvider{ID: pid, Name: p.Name}); err != nil {
			return err
		}
	}
	for _, p := range n.ParkingOperators {
		pid, err := domain.ParseParkingOperatorID(p.ID)
		if err != nil {
			return err
		}
		if err := network.AddParkingOperator(domain.ParkingOperator{ID: pid, Name: p.Name}); err != nil {
			return err
		}
	}
	return nil
}

func applyPool(network *domain.RoamingNetwork, operator domain.ChargingStationOperatorID, p Pool) error {
	poolID, err := domain.ParseChargingPoolID(p.ID)
	if err != nil {
		return err
	}
	if err := network.AddPool(domain.PoolSpec{ID: poolID, OperatorID: operator, Name: p.Name, Description: p.Description}); err != nil {
		return err
	}
	for _, s := range p.Stations {
		stationID, err := domain.ParseChargingStationID(s.ID)
		if err != nil {
			return err
		}
		if err := network.AddStation(domain.StationSpec{ID: stationID, PoolID: poolID, Name: s.Name}); err != nil {
			return err
		}
		for _, e := range s.EVSEs {
			evseID, err := domain.ParseEVSEID(e.ID)
			if err != nil {
				return err
			}
			if err := network.AddEVSE(domain.EVSESpec{ID: evseID, StationID: stationID, Description: e.Description, MaxPowerKW: e.MaxPowerKW}); err != nil {
				return err
			}
		}
	}
	return nil
}
