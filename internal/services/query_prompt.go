package services

import "strings"

const interpretPromptTemplate = `You are analyzing queries about route optimization using transport order data.

Current transport order structure:
- pickup_location: Location where materials need to be picked up (1-4: Insulation, Weather Stripping, Fiber Glass, Shingles)
- delivery_location: Location where materials need to be delivered (5-8: Trucks 1-4)
- order_demand: Quantity to be moved
- earliest_pickup/latest_pickup: Time window for pickup
- pickup_service_time: Time needed for loading
- earliest_delivery/latest_delivery: Time window for delivery
- delivery_service_time: Time needed for unloading

Location mapping:
- 0: Forklift Depot
- 1: Insulation
- 2: Weather Stripping
- 3: Fiber Glass
- 4: Shingles
- 5: Truck 1
- 6: Truck 2
- 7: Truck 3
- 8: Truck 4

Analyze this query: {{QUERY}}

Return a JSON object with:
{
    "query_type": string,  // route_optimization, loading_time_analysis, conflict_analysis, add_order, remove_order
    "transport_data_changes": {
        "modify_service_times": {
            "needed": boolean,
            "new_value": number or null,
            "affected_orders": [list of order indices] or "all"
        },
        "modify_time_windows": {
            "needed": boolean,
            "type": "pickup" or "delivery" or null,
            "new_values": {
                "earliest": number or null,
                "latest": number or null
            },
            "affected_orders": [list of order indices] or "all"
        },
        "remove_orders": {
            "needed": boolean,
            "order_indices": [list of order indices to remove] or null
        }
    },
    "fleet_changes": {
        "modify_capacity": {
            "needed": boolean,
            "forklift_id": number or null,
            "new_capacity": number or null
        },
        "modify_fleet_size": {
            "needed": boolean,
            "new_size": number or null
        }
    },
    "new_orders": [
        {
            "pickup_location": number,
            "delivery_location": number,
            "order_demand": number,
            "earliest_pickup": number,
            "latest_pickup": number,
            "pickup_service_time": number,
            "earliest_delivery": number,
            "latest_delivery": number,
            "delivery_service_time": number
        }
    ],
    "required_analyses": {
        "baseline_needed": boolean,
        "visualization_needed": true,
        "conflict_analysis": boolean
    }
}

Make sure to properly parse the number of forklifts and their capacity from the query.
If the query mentions a specific number of forklifts, set "modify_fleet_size" to "needed": true and "new_size" to that number.
If the query mentions capacity (how many items each forklift can carry), set "modify_capacity" to "needed": true and "new_capacity" to that number.
If the capacity applies to one forklift only, set "forklift_id" to its number (1 for the first forklift); otherwise leave it null.
If the query mentions removing orders (like "remove first order" or "remove order 1"), set "remove_orders" to "needed": true and "order_indices" to the indices of orders to remove (0 for first order, 1 for second order, etc.).
Only use numbers that appear in the query. Return only the JSON object.
`

// buildInterpretPrompt embeds the user query into the fixed instruction prompt.
func buildInterpretPrompt(query string) string {
	return strings.Replace(interpretPromptTemplate, "{{QUERY}}", strings.TrimSpace(query), 1)
}
